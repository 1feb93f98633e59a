package recording

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kvasny/stampcam/ccc/logging"
	"github.com/kvasny/stampcam/metrics"
	"github.com/kvasny/stampcam/quality"
)

// CompletionSink receives the finished recording of a session exactly
// once. The persistence pipeline is wired in here.
type CompletionSink func(rec FinishedRecording)

// Controller owns the record/stop state machine. It enforces at most
// one active session and is the single arbiter of session completion:
// duplicate or late device callbacks are discarded by the state guard.
type Controller interface {
	// Start begins a new recording session with the currently selected
	// quality tier. Valid only when no session is in progress.
	Start(ctx context.Context) (*Session, error)

	// Stop requests the end of the current recording session. Valid
	// only while recording.
	Stop(ctx context.Context) error

	// SetQuality selects the tier used by the next session. Rejected
	// while a session is in progress.
	SetQuality(tier string) error

	// Status returns a snapshot of the current session, or an idle
	// placeholder when none was started yet.
	Status() Session
}

type controller struct {
	logger logging.Logger
	device CaptureDevice
	sink   CompletionSink

	mu      sync.Mutex
	tier    string
	session *Session

	// tickInterval is overridable in tests; defaults to one second.
	tickInterval time.Duration
}

// NewController creates a session controller. The sink may be nil, in
// which case finished recordings are only observable through Status.
func NewController(logger logging.Logger, device CaptureDevice, initialTier string, sink CompletionSink) *controller {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &controller{
		logger:       logger,
		device:       device,
		sink:         sink,
		tier:         initialTier,
		tickInterval: time.Second,
	}
}

func (c *controller) Status() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Session{State: StateIdle}
	}
	return *c.session
}

func (c *controller) SetQuality(tier string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil && c.session.active() {
		return NewInvalidStateError("set quality", c.session.State)
	}

	c.tier = tier
	return nil
}

func (c *controller) Start(ctx context.Context) (*Session, error) {
	c.mu.Lock()

	if c.session != nil && c.session.active() {
		state := c.session.State
		c.mu.Unlock()
		return nil, NewInvalidStateError("start", state)
	}

	// A finished or failed session is discarded when a new one starts.
	profile := quality.Resolve(c.tier)
	session := &Session{
		ID:        uuid.New().String(),
		State:     StateRecording,
		Profile:   profile,
		StartedAt: time.Now().UTC(),
	}
	c.session = session
	sessionID := session.ID
	c.mu.Unlock()

	params := CaptureParams{
		Width:        profile.Width,
		Height:       profile.Height,
		FrameRate:    profile.FrameRate,
		VideoBitRate: profile.VideoBitRate,
		AudioBitRate: profile.AudioBitRate,
		Codec:        profile.Codec,
		Container:    profile.Container,
	}

	c.logger.Info("starting recording session", "session_id", sessionID, "tier", profile.Name,
		"resolution", profile.Width, "video_bit_rate", profile.VideoBitRate)

	err := c.device.StartCapture(ctx, params,
		func(rec RawRecording) { c.handleFinished(sessionID, rec) },
		func(devErr error) { c.handleDeviceError(sessionID, devErr) },
	)
	if err != nil {
		c.mu.Lock()
		if c.session != nil && c.session.ID == sessionID {
			c.session.State = StateFailed
			c.session.Error = err.Error()
		}
		c.mu.Unlock()

		c.logger.Error("failed to start capture", "session_id", sessionID, "error", err)
		metrics.SessionsFailed.Inc()

		// Preserve the device's own error type if it reported one.
		if IsDeviceUnavailableError(err) || IsPermissionDeniedError(err) {
			return nil, err
		}
		return nil, NewStartFailedError(err.Error())
	}

	go c.tickLoop(sessionID)
	metrics.SessionsStarted.Inc()

	snapshot := *session
	return &snapshot, nil
}

func (c *controller) Stop(ctx context.Context) error {
	c.mu.Lock()

	if c.session == nil || c.session.State != StateRecording {
		state := StateIdle
		if c.session != nil {
			state = c.session.State
		}
		c.mu.Unlock()
		return NewInvalidStateError("stop", state)
	}

	sessionID := c.session.ID
	c.session.State = StateStopping
	c.mu.Unlock()

	c.logger.Info("stopping recording session", "session_id", sessionID)

	if err := c.device.StopCapture(ctx); err != nil {
		c.mu.Lock()
		if c.session != nil && c.session.ID == sessionID && c.session.active() {
			c.session.State = StateFailed
			c.session.Error = err.Error()
		}
		c.mu.Unlock()

		c.logger.Error("failed to stop capture", "session_id", sessionID, "error", err)
		metrics.SessionsFailed.Inc()
		return NewStopFailedError(err.Error())
	}

	return nil
}

// tickLoop increments the elapsed-seconds counter once per second while
// the session is recording. Ticking stops as soon as the session
// leaves the Recording state.
func (c *controller) tickLoop(sessionID string) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.session == nil || c.session.ID != sessionID || c.session.State != StateRecording {
			c.mu.Unlock()
			return
		}
		c.session.ElapsedSeconds++
		c.mu.Unlock()
	}
}

// handleFinished transitions the session to Finished and hands the
// result to the sink. A callback for a superseded or already-completed
// session is discarded.
func (c *controller) handleFinished(sessionID string, rec RawRecording) {
	c.mu.Lock()

	if c.session == nil || c.session.ID != sessionID || !c.session.active() {
		c.mu.Unlock()
		c.logger.Warn("discarding stale finish callback", "session_id", sessionID)
		return
	}

	c.session.State = StateFinished
	finished := FinishedRecording{
		SessionID:      sessionID,
		Path:           rec.Path,
		Profile:        c.session.Profile,
		StartedAt:      c.session.StartedAt,
		ElapsedSeconds: c.session.ElapsedSeconds,
		Width:          rec.Width,
		Height:         rec.Height,
	}
	c.mu.Unlock()

	c.logger.Info("recording session finished", "session_id", sessionID,
		"path", rec.Path, "elapsed_seconds", finished.ElapsedSeconds)

	if c.sink != nil {
		c.sink(finished)
	}
}

func (c *controller) handleDeviceError(sessionID string, err error) {
	c.mu.Lock()

	if c.session == nil || c.session.ID != sessionID || !c.session.active() {
		c.mu.Unlock()
		c.logger.Warn("discarding stale error callback", "session_id", sessionID, "error", err)
		return
	}

	c.session.State = StateFailed
	c.session.Error = err.Error()
	c.mu.Unlock()

	metrics.SessionsFailed.Inc()
	c.logger.Error("recording session failed", "session_id", sessionID, "error", err)
}
