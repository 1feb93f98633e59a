package recording

import (
	"context"
	"time"
)

// CaptureParams are the concrete encoder parameters handed to the
// capture device when a session starts.
type CaptureParams struct {
	Width        int
	Height       int
	FrameRate    float64
	VideoBitRate int
	AudioBitRate int
	Codec        string
	Container    string
}

// RawRecording is what the device reports when a capture finishes: the
// ephemeral file it produced plus whatever it knows about the output.
type RawRecording struct {
	Path      string
	Width     int
	Height    int
	Duration  time.Duration
	StartedAt time.Time
}

// FinishedCallback is invoked once when the device has flushed a
// completed recording to disk.
type FinishedCallback func(rec RawRecording)

// ErrorCallback is invoked when the device fails after a successful
// start. At most one of FinishedCallback/ErrorCallback fires per
// capture; the session controller discards late duplicates anyway.
type ErrorCallback func(err error)

// CaptureDevice is the boundary to the actual camera hardware.
type CaptureDevice interface {
	// StartCapture begins recording with the given parameters. A
	// start-level failure is returned synchronously; everything after a
	// successful start is reported through the callbacks.
	StartCapture(ctx context.Context, params CaptureParams, onFinished FinishedCallback, onError ErrorCallback) error

	// StopCapture requests the device to finish the current capture.
	// The finished recording (or error) arrives via the callbacks
	// passed to StartCapture.
	StopCapture(ctx context.Context) error
}
