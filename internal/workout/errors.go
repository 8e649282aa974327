package workout

import (
	"errors"
	"fmt"
)

// Sentinel errors for workout operations.
var (
	ErrValidation  = errors.New("invalid workout input")
	ErrDeserialize = errors.New("failed to decode workouts")
	ErrDuplicateID = errors.New("duplicate workout id")
	ErrNotFound    = errors.New("workout not found")
)

// ValidationError describes which input constraint failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DeserializationError reports why a persisted blob could not be loaded.
type DeserializationError struct {
	// Index is the record position, or -1 for envelope-level failures.
	Index  int
	Reason string
	Err    error
}

func (e *DeserializationError) Error() string {
	msg := e.Reason
	if e.Index >= 0 {
		msg = fmt.Sprintf("record %d: %s", e.Index, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrDeserialize, msg)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *DeserializationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDeserialize}
	}
	return []error{ErrDeserialize, e.Err}
}
