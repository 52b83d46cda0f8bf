package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for inputs the caller must fix: empty or
	// whitespace-only document text, mismatched chunk/embedding counts,
	// out-of-range chunking parameters. Never retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when no index or document exists for the
	// requested document identifier.
	ErrNotFound = errors.New("not found")
	// ErrUpstream is returned when an embedding or generation call failed
	// after the retry policy was exhausted.
	ErrUpstream = errors.New("upstream service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
