package assets

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kvasny/stampcam/ccc/logging"
)

// SaveOptions describe where in the durable media store an asset goes.
type SaveOptions struct {
	Type  string // always "video" for this app
	Album string
}

// MediaStore is the "gallery" boundary: a shared durable media store
// that may fail, in which case the pipeline falls through to its
// alternative paths.
type MediaStore interface {
	// Save registers the file at path in the store and returns an
	// opaque handle to the stored copy.
	Save(ctx context.Context, filePath string, opts SaveOptions) (string, error)
}

// S3Config holds the S3-backed media store configuration.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3MediaStore implements MediaStore on an S3 bucket; objects are keyed
// <album>/<filename>.
type S3MediaStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
	logger   logging.Logger
}

// NewS3MediaStore creates an S3 media store. Credentials fall back to
// the default AWS chain when not set in cfg.
func NewS3MediaStore(ctx context.Context, cfg S3Config, logger logging.Logger) (*S3MediaStore, error) {
	if logger == nil {
		logger = logging.NopLogger
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	} else {
		logger.Warn("S3 media store using default credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024 // 5MB parts for streaming
	})

	return &S3MediaStore{
		client:   client,
		uploader: uploader,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Save uploads the file under <album>/<basename> and returns the object
// URL as the gallery handle.
func (s *S3MediaStore) Save(ctx context.Context, filePath string, opts SaveOptions) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filePath, err)
	}
	defer file.Close()

	key := path.Join(opts.Album, path.Base(filePath))

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	handle := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	s.logger.Info("asset saved to gallery", "key", key, "bucket", s.cfg.Bucket)
	return handle, nil
}
