// Package errs defines the error taxonomy shared by the service and the HTTP
// layer. Handlers classify failures with errors.Is against the sentinels here;
// anything that does not match is treated as an infrastructure failure.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed required input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an absent entity, or an empty result set where a
	// non-empty one was expected.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")
)

// Validation wraps msg as a validation error.
func Validation(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

// NotFound wraps msg as a not-found error.
func NotFound(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrNotFound)
}

// Conflict wraps msg as a conflict error.
func Conflict(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrConflict)
}
