// Package store provides abstractions and implementations for data persistence.
package store

import (
	"context"

	"github.com/studyloop/studyloop-api/internal/domain"
)

// StateStore defines the interface for per-user state persistence.
//
// Each user key maps to exactly one UserState, persisted as a whole. The
// store offers no finer granularity than the full state value: callers load
// the entire state, mutate a copy, and save the entire state back. Per-key
// write serialization is the caller's responsibility (the service layer
// holds a mutex per user key); the store's contract is atomic visibility of
// each saved value and read-your-writes after an acknowledged save.
type StateStore interface {
	// GetState returns the state for the given user key, synthesizing and
	// persisting an empty state on first access. It fails only when the
	// underlying storage is unavailable, wrapping ErrStorageUnavailable.
	GetState(ctx context.Context, userKey string) (*domain.UserState, error)

	// SaveState persists a full replacement of the state for its user key.
	// Once SaveState returns nil, any subsequent GetState for the same key
	// reflects the new value.
	SaveState(ctx context.Context, state *domain.UserState) error
}
