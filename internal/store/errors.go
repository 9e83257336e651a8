package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// user's state. This is a generic version of the entity-specific not
	// found errors (e.g., ErrGoalNotFound, ErrTopicNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrStorageUnavailable is returned when the underlying persistence
	// layer cannot be reached. This is fatal to the current operation; no
	// partial state is ever written, so the whole operation is safe to retry.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStaleState is returned when a save is rejected because another
	// writer persisted a newer version of the state since it was loaded.
	// This only fires when per-key serialization is misconfigured (e.g. two
	// processes sharing one database without coordination).
	ErrStaleState = errors.New("stale state version")

	// Entity-specific "not found" errors

	// ErrGoalNotFound indicates that the referenced goal does not exist.
	ErrGoalNotFound = fmt.Errorf("%w: goal", ErrNotFound)

	// ErrTopicNotFound indicates that the referenced topic does not exist.
	ErrTopicNotFound = fmt.Errorf("%w: topic", ErrNotFound)

	// ErrPlanNotFound indicates that no plan is stored for the given date.
	ErrPlanNotFound = fmt.Errorf("%w: daily plan", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// This includes the generic ErrNotFound and all entity-specific not found
// errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorageError checks if the error indicates the persistence layer itself
// failed, as opposed to a caller-visible not-found or validation failure.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrStaleState)
}

// StoreError is a custom error type for store-specific errors with
// additional context.
type StoreError struct {
	Operation string // The operation that failed (e.g., "get_state", "save_state")
	UserKey   string // The user key the operation ran against
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s for user %q failed: %s: %v", e.Operation, e.UserKey, e.Message, e.Err)
	}
	return fmt.Sprintf("%s for user %q failed: %s", e.Operation, e.UserKey, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given operation, user key,
// message, and wrapped error.
func NewStoreError(operation, userKey, message string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		UserKey:   userKey,
		Message:   message,
		Err:       err,
	}
}
