package recording

import "fmt"

// Error types for the capture lifecycle. Each carries the underlying
// device message so it can be shown to the user verbatim.

type DeviceUnavailableError struct {
	Message string
}

type PermissionDeniedError struct {
	Message string
}

type StartFailedError struct {
	Message string
}

type StopFailedError struct {
	Message string
}

// InvalidStateError signals an operation attempted from the wrong
// session state, e.g. stop() while idle.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *DeviceUnavailableError) Error() string {
	return "Camera device unavailable: " + e.Message
}

func (e *PermissionDeniedError) Error() string {
	return "Capture permission denied: " + e.Message
}

func (e *StartFailedError) Error() string {
	return "Failed to start recording: " + e.Message
}

func (e *StopFailedError) Error() string {
	return "Failed to stop recording: " + e.Message
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("Operation %s not allowed in state %s", e.Op, e.State)
}

// helper functions for error handling

func IsDeviceUnavailableError(err error) bool {
	_, ok := err.(*DeviceUnavailableError)
	return ok
}

func IsPermissionDeniedError(err error) bool {
	_, ok := err.(*PermissionDeniedError)
	return ok
}

func IsStartFailedError(err error) bool {
	_, ok := err.(*StartFailedError)
	return ok
}

func IsStopFailedError(err error) bool {
	_, ok := err.(*StopFailedError)
	return ok
}

func IsInvalidStateError(err error) bool {
	_, ok := err.(*InvalidStateError)
	return ok
}

func NewDeviceUnavailableError(message string) error {
	return &DeviceUnavailableError{Message: message}
}

func NewPermissionDeniedError(message string) error {
	return &PermissionDeniedError{Message: message}
}

func NewStartFailedError(message string) error {
	return &StartFailedError{Message: message}
}

func NewStopFailedError(message string) error {
	return &StopFailedError{Message: message}
}

func NewInvalidStateError(op string, state State) error {
	return &InvalidStateError{Op: op, State: state}
}
