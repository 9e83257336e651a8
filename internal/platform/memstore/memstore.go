// Package memstore provides an in-memory implementation of store.StateStore
// for tests and local development. States are deep-copied on every read and
// write so callers can never alias the stored value.
package memstore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/store"
)

// MemoryStateStore implements store.StateStore backed by a process-local map.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]*domain.UserState
	logger *slog.Logger
}

// NewMemoryStateStore creates an empty in-memory state store.
// If logger is nil, a default logger will be used.
func NewMemoryStateStore(logger *slog.Logger) *MemoryStateStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &MemoryStateStore{
		states: make(map[string]*domain.UserState),
		logger: logger.With(slog.String("component", "memory_state_store")),
	}
}

// Ensure MemoryStateStore implements store.StateStore interface
var _ store.StateStore = (*MemoryStateStore)(nil)

// GetState implements store.StateStore.GetState.
// It synthesizes and stores an empty state on first access for a user key.
func (s *MemoryStateStore) GetState(ctx context.Context, userKey string) (*domain.UserState, error) {
	if userKey == "" {
		return nil, store.NewStoreError("get_state", userKey, "empty user key", domain.ErrUserKeyEmpty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[userKey]
	if !ok {
		state = domain.NewUserState(userKey)
		s.states[userKey] = state
		s.logger.Debug("synthesized empty state on first access",
			slog.String("user_key", userKey))
	}

	return state.Clone(), nil
}

// SaveState implements store.StateStore.SaveState.
// It stores a full replacement of the state for its user key.
func (s *MemoryStateStore) SaveState(ctx context.Context, state *domain.UserState) error {
	if state == nil || state.UserID == "" {
		return store.NewStoreError("save_state", "", "state missing user key", domain.ErrUserKeyEmpty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[state.UserID] = state.Clone()
	return nil
}
