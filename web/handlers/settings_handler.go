package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kvasny/stampcam/ccc/logging"
	"github.com/kvasny/stampcam/recording"
	"github.com/kvasny/stampcam/settings"
)

// SettingsHandler exposes the settings store over HTTP.
type SettingsHandler struct {
	logger     logging.Logger
	store      settings.Store
	controller recording.Controller // guards quality changes mid-session; may be nil
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(logger logging.Logger, store settings.Store, controller recording.Controller) *SettingsHandler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &SettingsHandler{
		logger:     logger,
		store:      store,
		controller: controller,
	}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	current, err := h.store.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, current)
}

// Replace handles PUT /api/settings
func (h *SettingsHandler) Replace(c *gin.Context) {
	var req settings.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload: " + err.Error()})
		return
	}

	prev, err := h.store.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	if err := h.applyQuality(req.VideoQuality); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Save(c.Request.Context(), req); err != nil {
		h.revertQuality(prev.VideoQuality)
		h.logger.Error("failed to save settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, req)
}

// UpdateKeyRequest is the body of a single-key settings update.
type UpdateKeyRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// UpdateKey handles PATCH /api/settings/:key
func (h *SettingsHandler) UpdateKey(c *gin.Context) {
	key := c.Param("key")

	var req UpdateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update payload: " + err.Error()})
		return
	}

	revertTier := ""
	if key == "videoQuality" {
		var tier string
		if err := json.Unmarshal(req.Value, &tier); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "videoQuality must be a string"})
			return
		}

		prev, err := h.store.Get(c.Request.Context())
		if err != nil {
			h.logger.Error("failed to load settings", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
			return
		}

		if err := h.applyQuality(tier); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		revertTier = prev.VideoQuality
	}

	updated, err := h.store.UpdateKey(c.Request.Context(), key, req.Value)
	if err != nil {
		if revertTier != "" {
			h.revertQuality(revertTier)
		}
		if !settings.IsKnownKey(key) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to update setting", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Reset handles DELETE /api/settings
func (h *SettingsHandler) Reset(c *gin.Context) {
	if err := h.store.Reset(c.Request.Context()); err != nil {
		h.logger.Error("failed to reset settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset settings"})
		return
	}

	c.JSON(http.StatusOK, settings.Defaults())
}

// applyQuality propagates a tier change to the session controller,
// which rejects it while a recording is in progress.
func (h *SettingsHandler) applyQuality(tier string) error {
	if h.controller == nil || tier == "" {
		return nil
	}
	return h.controller.SetQuality(tier)
}

// revertQuality restores the controller's tier after a failed persist
// so the active tier stays in line with the stored settings.
func (h *SettingsHandler) revertQuality(tier string) {
	if h.controller == nil || tier == "" {
		return
	}
	if err := h.controller.SetQuality(tier); err != nil {
		h.logger.Warn("failed to revert quality tier", "tier", tier, "error", err)
	}
}
