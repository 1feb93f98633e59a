package recording

import (
	"time"

	"github.com/kvasny/stampcam/quality"
)

// State is the lifecycle state of a recording session.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateStopping  State = "stopping"
	StateFinished  State = "finished"
	StateFailed    State = "failed"
)

// Session represents one in-progress or just-completed capture. The
// quality profile is frozen at session start.
type Session struct {
	ID             string          `json:"id"`
	State          State           `json:"state"`
	ElapsedSeconds int             `json:"elapsed_seconds"`
	Profile        quality.Profile `json:"profile"`
	StartedAt      time.Time       `json:"started_at"`
	Error          string          `json:"error,omitempty"`
}

// active reports whether the session still owns the capture device.
func (s *Session) active() bool {
	return s.State == StateRecording || s.State == StateStopping
}

// FinishedRecording is handed to the completion sink when a session
// reaches the Finished state. No durable copy exists yet at that point.
type FinishedRecording struct {
	SessionID      string
	Path           string
	Profile        quality.Profile
	StartedAt      time.Time
	ElapsedSeconds int
	Width          int
	Height         int
}
