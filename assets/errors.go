package assets

import "strings"

// SourceMissingError means the recording the device reported does not
// exist on disk. This is the one fatal, non-fallback error of the
// persistence pipeline.
type SourceMissingError struct {
	Path string
}

// PersistenceFailedError is raised once every durable-copy attempt in
// the fallback chain has failed. It carries the whole chain of causes.
type PersistenceFailedError struct {
	Causes []error
}

func (e *SourceMissingError) Error() string {
	return "Source video file not found: " + e.Path
}

func (e *PersistenceFailedError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, cause := range e.Causes {
		msgs = append(msgs, cause.Error())
	}
	return "All save methods failed: " + strings.Join(msgs, "; ")
}

// helper functions for error handling

func IsSourceMissingError(err error) bool {
	_, ok := err.(*SourceMissingError)
	return ok
}

func IsPersistenceFailedError(err error) bool {
	_, ok := err.(*PersistenceFailedError)
	return ok
}

func NewSourceMissingError(path string) error {
	return &SourceMissingError{Path: path}
}

func NewPersistenceFailedError(causes ...error) error {
	return &PersistenceFailedError{Causes: causes}
}
