package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable marks transient store failures. Safe to retry
	// with backoff; the caller owns the retry, the core never does.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InvalidRequestError reports a missing or malformed required input.
// Never retried; the client has to fix the request.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: field %q %s", e.Field, e.Reason)
}

// NewInvalidRequest creates an InvalidRequestError for a single field.
func NewInvalidRequest(field, reason string) *InvalidRequestError {
	return &InvalidRequestError{Field: field, Reason: reason}
}

// ValidationError carries per-field constraint violations for a payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
