package storybook

import (
	"errors"
	"fmt"
)

// Standard error variables for the store's error taxonomy. Callers translate
// these into transport responses; the store itself never retries.
var (
	// ErrNotFound means no file backs the requested name.
	ErrNotFound = errors.New("storybook not found")

	// ErrCorrupt means a file exists but its content fails to decode.
	// Distinct from ErrNotFound so operators can tell on-disk damage from a
	// missing key.
	ErrCorrupt = errors.New("stored storybook is corrupt")

	// ErrInvalidDocument is the class all validation failures unwrap to.
	ErrInvalidDocument = errors.New("invalid storybook document")
)

// ValidationError reports a specific violated constraint in an uploaded
// document or a requested filename. Always a client-fault condition.
type ValidationError struct {
	Field  string // JSON path of the offending field, empty if not field-specific
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// Unwrap lets errors.Is(err, ErrInvalidDocument) classify any validation
// failure without inspecting the concrete type.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidDocument
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
