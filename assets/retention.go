package assets

import (
	"context"
	"os"
	"time"

	"github.com/kvasny/stampcam/ccc/logging"
	"github.com/kvasny/stampcam/metrics"
)

// Retention deletes persisted assets older than a configured age. It
// shares the app-private folder layout with the persistence pipeline.
type Retention struct {
	logger   logging.Logger
	videoDir string

	now    func() time.Time
	remove func(path string) error
}

// NewRetention creates a retention manager over the app-private video
// folder.
func NewRetention(logger logging.Logger, videoDir string) *Retention {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &Retention{
		logger:   logger,
		videoDir: videoDir,
		now:      time.Now,
		remove:   os.Remove,
	}
}

// Cleanup deletes every asset strictly older than maxAgeDays, along
// with its metadata sidecar, and returns the number of assets removed.
// A per-item deletion failure is logged, left out of the count, and
// does not abort the sweep. maxAgeDays <= 0 disables the sweep.
func (r *Retention) Cleanup(ctx context.Context, maxAgeDays int) (int, error) {
	if maxAgeDays <= 0 {
		return 0, nil
	}

	files, err := ListVideos(r.videoDir)
	if err != nil {
		return 0, err
	}

	cutoff := r.now().AddDate(0, 0, -maxAgeDays)
	deleted := 0

	for _, file := range files {
		if ctx.Err() != nil {
			return deleted, ctx.Err()
		}

		if !file.ModTime.Before(cutoff) {
			continue
		}

		if err := r.deleteAsset(file.Path); err != nil {
			r.logger.Warn("failed to delete old video", "path", file.Path, "error", err)
			continue
		}

		deleted++
		metrics.RetentionDeleted.Inc()
		r.logger.Info("deleted old video", "path", file.Path, "mod_time", file.ModTime)
	}

	if deleted > 0 {
		r.logger.Info("retention sweep completed", "deleted", deleted, "max_age_days", maxAgeDays)
	}

	return deleted, nil
}

// deleteAsset removes a video and its sidecar. A missing sidecar is
// fine; a sidecar deletion failure is not fatal once the video itself
// is gone.
func (r *Retention) deleteAsset(videoPath string) error {
	if err := r.remove(videoPath); err != nil {
		return err
	}

	sidecarPath := SidecarPath(videoPath)
	if err := r.remove(sidecarPath); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("failed to delete metadata sidecar", "path", sidecarPath, "error", err)
	}

	return nil
}
