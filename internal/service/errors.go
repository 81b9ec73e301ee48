package service

import "fmt"

// ValidationError reports a malformed ingestion payload. Handlers surface it
// as a client error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProcessingError reports a storage or image-processing failure that aborted
// the current batch. Handlers surface it as an internal error.
type ProcessingError struct {
	Message string
	Cause   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}
