package assets

import (
	"fmt"
	"strconv"

	"github.com/kvasny/stampcam/ccc/logging"
	"github.com/xfrr/goffmpeg/transcoder"
)

// ProbeResult contains the metadata extracted from an encoded video.
type ProbeResult struct {
	Width           int
	Height          int
	DurationSeconds float64
}

// Prober extracts metadata from a finished video file.
type Prober interface {
	Probe(path string) (*ProbeResult, error)
}

// FFmpegProber implements Prober using goffmpeg.
type FFmpegProber struct {
	logger logging.Logger
}

// NewFFmpegProber creates a new FFmpeg-based prober
func NewFFmpegProber(logger logging.Logger) *FFmpegProber {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &FFmpegProber{logger: logger}
}

// Probe extracts resolution and duration from the video at path.
func (p *FFmpegProber) Probe(path string) (*ProbeResult, error) {
	trans := new(transcoder.Transcoder)
	if err := trans.Initialize(path, ""); err != nil {
		return nil, fmt.Errorf("failed to initialize transcoder for metadata: %w", err)
	}

	metadata := trans.MediaFile().Metadata()

	var width, height int
	for _, stream := range metadata.Streams {
		if stream.CodecType == "video" {
			width = stream.Width
			height = stream.Height
			break // Use first video stream
		}
	}

	if width == 0 || height == 0 {
		return nil, fmt.Errorf("could not extract video dimensions")
	}

	var duration float64
	if metadata.Format.Duration != "" {
		if d, err := strconv.ParseFloat(metadata.Format.Duration, 64); err == nil {
			duration = d
		}
	}

	p.logger.Debug(fmt.Sprintf("Probed video metadata: %dx%d, %.1fs", width, height, duration))

	return &ProbeResult{
		Width:           width,
		Height:          height,
		DurationSeconds: duration,
	}, nil
}
