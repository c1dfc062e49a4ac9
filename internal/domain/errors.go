package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a draft with a missing or empty required field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals a missing rex.
	ErrNotFound = errors.New("not found")
	// ErrStorage signals a failed durable write of the rex collection.
	ErrStorage = errors.New("storage error")
	// ErrExternalService signals a keyword model failure. Never leaves the keyword layer.
	ErrExternalService = errors.New("external service error")
	// ErrNoSourceData signals that ingestion found no readable source files.
	ErrNoSourceData = errors.New("no source data")
)

// ValidationError names the offending field of a rejected draft.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
