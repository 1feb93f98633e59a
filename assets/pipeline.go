package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/kvasny/stampcam/ccc/logging"
	"github.com/kvasny/stampcam/metrics"
)

// Pipeline persists a finished recording into durable storage using an
// ordered fallback chain: gallery first, then a public folder, with an
// app-private copy and metadata sidecar alongside. Each step's failure
// falls through to the next; only a missing source aborts immediately.
type Pipeline struct {
	logger logging.Logger
	store  MediaStore // nil when no gallery is configured
	prober Prober     // nil when ffmpeg probing is unavailable

	videoDir  string // app-private folder
	publicDir string // base for the Movies/<prefix> fallback
	tempDir   string
	album     string
	prefix    string

	now func() time.Time
}

// NewPipeline creates an asset persistence pipeline. store and prober
// are optional.
func NewPipeline(logger logging.Logger, store MediaStore, prober Prober, videoDir, publicDir, album, prefix string) *Pipeline {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &Pipeline{
		logger:    logger,
		store:     store,
		prober:    prober,
		videoDir:  videoDir,
		publicDir: publicDir,
		tempDir:   os.TempDir(),
		album:     album,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Persist writes the recording at sourcePath into durable storage and
// returns where it ended up. Persisting the same source twice creates
// two distinct assets; there is no dedup.
//
// Filenames carry a second-resolution timestamp, so two saves within
// the same second collide. That matches the historical on-disk format.
func (p *Pipeline) Persist(ctx context.Context, sourcePath string, meta Metadata) (*SavedAsset, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewSourceMissingError(sourcePath)
		}
		return nil, fmt.Errorf("failed to stat source video: %w", err)
	}

	fileName := fmt.Sprintf("%s_%s.mp4", p.prefix, p.now().UTC().Format("2006-01-02_15-04-05"))

	p.logger.Info("persisting recording", "source", sourcePath, "file_name", fileName)

	probe := p.probeSource(sourcePath, info.Size(), meta)

	var causes []error

	// Step 1: gallery save, staged through a temp copy so a partially
	// written source never reaches the shared store.
	galleryHandle, galleryErr := p.saveToGallery(ctx, sourcePath, fileName)
	if galleryErr != nil {
		p.logger.Warn("gallery save failed, trying alternative method", "error", galleryErr)
		causes = append(causes, fmt.Errorf("gallery: %w", galleryErr))
	}

	// Step 2: public-folder fallback, only when the gallery refused us.
	publicPath := ""
	if galleryErr != nil {
		var publicErr error
		publicPath, publicErr = p.saveToPublicFolder(sourcePath, fileName)
		if publicErr != nil {
			p.logger.Warn("public folder save failed", "error", publicErr)
			causes = append(causes, fmt.Errorf("public folder: %w", publicErr))
			publicPath = ""
		}
	}

	// Step 3: app-private copy; the sidecar lives next to it.
	appPath := filepath.Join(p.videoDir, fileName)
	appErr := p.copyToAppFolder(sourcePath, appPath)
	if appErr != nil {
		p.logger.Error("app folder save failed", "error", appErr)
		causes = append(causes, fmt.Errorf("app folder: %w", appErr))
	}

	if galleryErr != nil && publicPath == "" && appErr != nil {
		return nil, NewPersistenceFailedError(causes...)
	}

	saved := &SavedAsset{
		FileName:       fileName,
		GalleryHandle:  galleryHandle,
		PublicPath:     publicPath,
		SavedToGallery: galleryErr == nil,
		Method:         MethodGallery,
	}
	if appErr == nil {
		saved.AppPath = appPath
	}
	if galleryErr != nil {
		saved.Method = MethodAlternative
		saved.Note = "gallery save failed: " + galleryErr.Error()
	}

	if appErr == nil {
		saved.SidecarPath = p.writeSidecar(appPath, sourcePath, saved, meta, probe)
	} else {
		p.logger.Warn("skipping metadata sidecar, no app folder copy", "file_name", fileName)
	}

	metrics.AssetsPersisted.WithLabelValues(saved.Method).Inc()

	p.logger.Info("recording persisted", "file_name", fileName,
		"gallery", saved.SavedToGallery, "public_path", publicPath, "app_path", saved.AppPath)

	return saved, nil
}

// probeSource extracts actual output metadata and warns when the real
// size deviates far from the prediction. Advisory only; never fails the
// persist.
func (p *Pipeline) probeSource(sourcePath string, sizeBytes int64, meta Metadata) *ProbeResult {
	actualSizeMB := float64(sizeBytes) / (1024 * 1024)
	if meta.ExpectedSizeMB > 0 {
		deviation := math.Abs(actualSizeMB-meta.ExpectedSizeMB) / meta.ExpectedSizeMB
		if deviation > 0.5 {
			p.logger.Warn("encoder output deviates from predicted size",
				"predicted_mb", meta.ExpectedSizeMB, "actual_mb", actualSizeMB)
		}
	}

	if p.prober == nil {
		return nil
	}

	probe, err := p.prober.Probe(sourcePath)
	if err != nil {
		p.logger.Warn("failed to probe recording metadata", "error", err)
		return nil
	}
	return probe
}

func (p *Pipeline) saveToGallery(ctx context.Context, sourcePath, fileName string) (string, error) {
	if p.store == nil {
		return "", errors.New("no gallery configured")
	}

	tempPath := filepath.Join(p.tempDir, fileName)
	if err := copyFile(sourcePath, tempPath); err != nil {
		return "", fmt.Errorf("staging copy: %w", err)
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			p.logger.Debug("temp file cleanup failed", "path", tempPath, "error", err)
		}
	}()

	return p.store.Save(ctx, tempPath, SaveOptions{Type: "video", Album: p.album})
}

func (p *Pipeline) saveToPublicFolder(sourcePath, fileName string) (string, error) {
	moviesDir := filepath.Join(p.publicDir, "Movies", p.prefix)
	if err := os.MkdirAll(moviesDir, 0755); err != nil {
		return "", err
	}

	publicPath := filepath.Join(moviesDir, fileName)
	if err := copyFile(sourcePath, publicPath); err != nil {
		return "", err
	}

	p.logger.Info("video saved to public folder", "path", publicPath)
	return publicPath, nil
}

func (p *Pipeline) copyToAppFolder(sourcePath, appPath string) error {
	if err := os.MkdirAll(p.videoDir, 0755); err != nil {
		return err
	}
	return copyFile(sourcePath, appPath)
}

// writeSidecar writes the metadata document next to the app-folder
// copy. A sidecar failure is logged, not fatal.
func (p *Pipeline) writeSidecar(appPath, sourcePath string, saved *SavedAsset, meta Metadata, probe *ProbeResult) string {
	sidecar := Sidecar{
		Metadata:       meta,
		OriginalPath:   sourcePath,
		SavedToGallery: saved.SavedToGallery,
		GalleryPath:    saved.GalleryHandle,
		PublicPath:     saved.PublicPath,
		SavedAt:        p.now().UTC(),
	}
	if !saved.SavedToGallery {
		sidecar.Method = MethodAlternative
		sidecar.Note = saved.Note
	}
	if probe != nil {
		sidecar.ActualWidth = probe.Width
		sidecar.ActualHeight = probe.Height
		sidecar.ActualDuration = probe.DurationSeconds
	}
	if info, err := os.Stat(appPath); err == nil {
		sidecar.ActualSizeMB = float64(info.Size()) / (1024 * 1024)
	}

	sidecarPath := SidecarPath(appPath)
	data, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		p.logger.Warn("failed to marshal metadata sidecar", "error", err)
		return ""
	}
	if err := os.WriteFile(sidecarPath, data, 0644); err != nil {
		p.logger.Warn("failed to write metadata sidecar", "path", sidecarPath, "error", err)
		return ""
	}

	return sidecarPath
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}

	return out.Close()
}
