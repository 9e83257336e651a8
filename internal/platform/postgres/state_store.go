// Package postgres implements store.StateStore on PostgreSQL. Each user
// key maps to one row holding the whole serialized UserState as JSONB,
// matching the load-entire-state / save-entire-state granularity of the
// service layer.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// PostgreSQL error class for connection failures
const pgConnectionExceptionClass = "08"

// PostgresStateStore implements the store.StateStore interface using a
// PostgreSQL database as the storage backend.
//
// Writes are guarded by a version column: the version observed at load time
// must still be current at save time, otherwise the save fails with
// store.ErrStaleState. With the service layer serializing writers per user
// key this check never fires in a single process; it exists so a second
// process sharing the database fails loudly instead of losing updates.
type PostgresStateStore struct {
	db     *sql.DB
	logger *slog.Logger

	// versions tracks the row version observed by the most recent GetState
	// per user key.
	mu       sync.Mutex
	versions map[string]int64
}

// NewPostgresStateStore creates a new PostgreSQL implementation of the
// StateStore interface. It accepts a database connection that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewPostgresStateStore(db *sql.DB, logger *slog.Logger) *PostgresStateStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStateStore{
		db:       db,
		logger:   logger.With(slog.String("component", "state_store")),
		versions: make(map[string]int64),
	}
}

// Ensure PostgresStateStore implements store.StateStore interface
var _ store.StateStore = (*PostgresStateStore)(nil)

// GetState implements store.StateStore.GetState.
// It retrieves the state for the given user key, inserting an empty state on
// first access so the key exists durably before any mutation. Returns an
// error wrapping store.ErrStorageUnavailable if the database cannot be
// reached.
func (s *PostgresStateStore) GetState(ctx context.Context, userKey string) (*domain.UserState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userKey == "" {
		return nil, store.NewStoreError("get_state", userKey, "empty user key", domain.ErrUserKeyEmpty)
	}

	blob, version, err := s.selectState(ctx, userKey)
	if errors.Is(err, sql.ErrNoRows) {
		// First access: persist the empty state, then re-read. The insert
		// tolerates a concurrent first access for the same key.
		if err := s.insertEmptyState(ctx, userKey); err != nil {
			return nil, err
		}
		blob, version, err = s.selectState(ctx, userKey)
		if err == nil {
			log.Debug("synthesized empty state on first access",
				slog.String("user_key", userKey))
		}
	}
	if err != nil {
		log.Error("failed to load user state",
			slog.String("error", err.Error()),
			slog.String("user_key", userKey))
		return nil, store.NewStoreError("get_state", userKey, "query failed", wrapStorageErr(err))
	}

	var state domain.UserState
	if err := json.Unmarshal(blob, &state); err != nil {
		log.Error("failed to decode stored user state",
			slog.String("error", err.Error()),
			slog.String("user_key", userKey))
		return nil, store.NewStoreError("get_state", userKey, "corrupt state blob", err)
	}

	s.mu.Lock()
	s.versions[userKey] = version
	s.mu.Unlock()

	return &state, nil
}

// SaveState implements store.StateStore.SaveState.
// It persists a full replacement of the state for its user key, bumping the
// row version. Returns store.ErrStaleState if another writer has persisted a
// newer version since this store last loaded the key.
func (s *PostgresStateStore) SaveState(ctx context.Context, state *domain.UserState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if state == nil || state.UserID == "" {
		return store.NewStoreError("save_state", "", "state missing user key", domain.ErrUserKeyEmpty)
	}

	blob, err := json.Marshal(state)
	if err != nil {
		return store.NewStoreError("save_state", state.UserID, "encode failed", err)
	}

	s.mu.Lock()
	expected, tracked := s.versions[state.UserID]
	s.mu.Unlock()

	if !tracked {
		// SaveState without a prior GetState for this key; load the current
		// version first so the guarded update has something to check.
		if _, _, err := s.selectState(ctx, state.UserID); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return store.NewStoreError("save_state", state.UserID, "version lookup failed", wrapStorageErr(err))
		}
		s.mu.Lock()
		expected = s.versions[state.UserID]
		s.mu.Unlock()
	}

	query := `
		UPDATE user_states
		SET state = $2, version = version + 1, updated_at = now()
		WHERE user_key = $1 AND version = $3
	`
	result, err := s.db.ExecContext(ctx, query, state.UserID, blob, expected)
	if err != nil {
		log.Error("failed to save user state",
			slog.String("error", err.Error()),
			slog.String("user_key", state.UserID))
		return store.NewStoreError("save_state", state.UserID, "update failed", wrapStorageErr(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("save_state", state.UserID, "rows affected unavailable", wrapStorageErr(err))
	}
	if rows == 0 {
		log.Warn("rejected stale state write",
			slog.String("user_key", state.UserID),
			slog.Int64("expected_version", expected))
		return store.NewStoreError("save_state", state.UserID, "state changed since load", store.ErrStaleState)
	}

	s.mu.Lock()
	s.versions[state.UserID] = expected + 1
	s.mu.Unlock()

	log.Debug("saved user state",
		slog.String("user_key", state.UserID),
		slog.Int64("version", expected+1))
	return nil
}

// selectState reads the blob and version for a user key in one query.
func (s *PostgresStateStore) selectState(ctx context.Context, userKey string) ([]byte, int64, error) {
	query := `SELECT state, version FROM user_states WHERE user_key = $1`

	var blob []byte
	var version int64
	err := s.db.QueryRowContext(ctx, query, userKey).Scan(&blob, &version)
	if err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	s.versions[userKey] = version
	s.mu.Unlock()

	return blob, version, nil
}

// insertEmptyState persists the lazily synthesized empty state for a key.
func (s *PostgresStateStore) insertEmptyState(ctx context.Context, userKey string) error {
	blob, err := json.Marshal(domain.NewUserState(userKey))
	if err != nil {
		return store.NewStoreError("get_state", userKey, "encode failed", err)
	}

	query := `
		INSERT INTO user_states (user_key, state, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_key) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, userKey, blob); err != nil {
		return store.NewStoreError("get_state", userKey, "insert failed", wrapStorageErr(err))
	}
	return nil
}

// wrapStorageErr classifies database errors so callers can distinguish
// storage unavailability from everything else via errors.Is.
func wrapStorageErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 &&
		pgErr.Code[:2] == pgConnectionExceptionClass {
		return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
	}
	return err
}
