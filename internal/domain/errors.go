// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)

	// ErrInvalidDate is returned when a plan date is not a valid YYYY-MM-DD day.
	ErrInvalidDate = fmt.Errorf("%w: invalid date", ErrValidation)

	// ErrInvalidGoalType is returned when a goal type is not one of the
	// recognized values.
	ErrInvalidGoalType = fmt.Errorf("%w: invalid goal type", ErrValidation)

	// ErrInvalidGoalStatus is returned when a goal status is not one of the
	// recognized values.
	ErrInvalidGoalStatus = fmt.Errorf("%w: invalid goal status", ErrValidation)

	// ErrInvalidTaskType is returned when a planned task type is not one of
	// the recognized values.
	ErrInvalidTaskType = fmt.Errorf("%w: invalid task type", ErrValidation)

	// ErrInvalidPriority is returned when a priority is outside [1,5].
	ErrInvalidPriority = fmt.Errorf("%w: priority must be between 1 and 5", ErrValidation)
)

// ValidationError wraps a field-level validation failure with enough context
// for the boundary layer to produce a useful client-facing message.
type ValidationError struct {
	Field   string // The offending field or parameter
	Message string // Human-readable description of the failure
	Err     error  // Underlying sentinel error, usually ErrValidation
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether the error is any kind of validation
// failure, either the ErrValidation sentinel or a wrapped ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.Is(err, ErrValidation) || errors.As(err, &ve)
}
