package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kvasny/stampcam/assets"
	"github.com/kvasny/stampcam/ccc/logging"
	"github.com/kvasny/stampcam/settings"
)

// VideoHandler exposes the persisted assets and the retention sweep.
type VideoHandler struct {
	logger    logging.Logger
	retention *assets.Retention
	store     settings.Store
	videoDir  string
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(logger logging.Logger, retention *assets.Retention, store settings.Store, videoDir string) *VideoHandler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &VideoHandler{
		logger:    logger,
		retention: retention,
		store:     store,
		videoDir:  videoDir,
	}
}

// List handles GET /api/videos
func (h *VideoHandler) List(c *gin.Context) {
	files, err := assets.ListVideos(h.videoDir)
	if err != nil {
		h.logger.Error("failed to list videos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list videos"})
		return
	}

	total, err := assets.FolderSize(h.videoDir)
	if err != nil {
		h.logger.Error("failed to size video folder", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list videos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"videos":           files,
		"total_size":       total,
		"total_size_human": assets.FormatFileSize(total),
	})
}

// Cleanup handles POST /api/videos/cleanup. The age threshold defaults
// to the user's autoDeleteDays setting and can be overridden with a
// "days" query parameter.
func (h *VideoHandler) Cleanup(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	} else {
		current, err := h.store.Get(c.Request.Context())
		if err != nil {
			h.logger.Error("failed to load settings for cleanup", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
			return
		}
		days = current.AutoDeleteDays
	}

	deleted, err := h.retention.Cleanup(c.Request.Context(), days)
	if err != nil {
		h.logger.Error("retention sweep failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted_count": deleted, "max_age_days": days})
}
