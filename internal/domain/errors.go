package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	// ErrDataSourceMissing means a vocabulary or corpus file is absent.
	// Callers degrade to an empty table or index and report a status.
	ErrDataSourceMissing = errors.New("data source missing")
	// ErrDataSourceMalformed means a data file could not be parsed.
	ErrDataSourceMalformed = errors.New("data source malformed")
	// ErrCacheInvalid means a persisted corpus cache is unreadable, stale,
	// or written by a different schema. It always triggers a rebuild.
	ErrCacheInvalid = errors.New("corpus cache invalid")
	// ErrCacheWriteFailed is non-fatal: the index is served from memory.
	ErrCacheWriteFailed = errors.New("corpus cache write failed")
	// ErrEmbeddingUnavailable means the provider produced no usable vector.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
