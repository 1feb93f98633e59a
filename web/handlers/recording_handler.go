package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kvasny/stampcam/ccc/logging"
	"github.com/kvasny/stampcam/recording"
)

// RecordingHandler exposes the record/stop lifecycle over HTTP.
type RecordingHandler struct {
	logger     logging.Logger
	controller recording.Controller
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(logger logging.Logger, controller recording.Controller) *RecordingHandler {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &RecordingHandler{
		logger:     logger,
		controller: controller,
	}
}

// Start handles POST /api/recording/start
func (h *RecordingHandler) Start(c *gin.Context) {
	session, err := h.controller.Start(c.Request.Context())
	if err != nil {
		h.logger.Warn("start recording rejected", "error", err)
		c.JSON(recordingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

// Stop handles POST /api/recording/stop. The finished asset is
// persisted asynchronously; this returns as soon as the stop request
// was accepted by the device.
func (h *RecordingHandler) Stop(c *gin.Context) {
	if err := h.controller.Stop(c.Request.Context()); err != nil {
		h.logger.Warn("stop recording rejected", "error", err)
		c.JSON(recordingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "stopping"})
}

// Status handles GET /api/recording/status
func (h *RecordingHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Status())
}

// recordingErrorStatus maps capture lifecycle errors to HTTP statuses.
// The error message itself is always passed through for display.
func recordingErrorStatus(err error) int {
	switch {
	case recording.IsInvalidStateError(err):
		return http.StatusConflict
	case recording.IsDeviceUnavailableError(err):
		return http.StatusServiceUnavailable
	case recording.IsPermissionDeniedError(err):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
