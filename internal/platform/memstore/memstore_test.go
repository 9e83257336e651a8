package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/studyloop-api/internal/domain"
)

func TestGetStateSynthesizesOnFirstAccess(t *testing.T) {
	t.Parallel()
	s := NewMemoryStateStore(nil)
	ctx := context.Background()

	state, err := s.GetState(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, state)

	assert.Equal(t, "user-1", state.UserID)
	assert.Empty(t, state.Goals)
	assert.Empty(t, state.Sessions)
	assert.Empty(t, state.DailyPlans)
}

func TestGetStateRejectsEmptyKey(t *testing.T) {
	t.Parallel()
	s := NewMemoryStateStore(nil)

	_, err := s.GetState(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUserKeyEmpty)
}

func TestSaveStateRoundTrip(t *testing.T) {
	t.Parallel()
	s := NewMemoryStateStore(nil)
	ctx := context.Background()

	state, err := s.GetState(ctx, "user-1")
	require.NoError(t, err)

	goal, err := domain.NewGoal("Goal", domain.GoalTypeExam,
		time.Now().UTC().AddDate(0, 0, 7), 3, "", []string{"Topic"})
	require.NoError(t, err)
	state.Goals = append(state.Goals, *goal)

	require.NoError(t, s.SaveState(ctx, state))

	reloaded, err := s.GetState(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, reloaded.Goals, 1)
	assert.Equal(t, goal.ID, reloaded.Goals[0].ID)
}

func TestSaveStateRejectsMissingKey(t *testing.T) {
	t.Parallel()
	s := NewMemoryStateStore(nil)

	assert.Error(t, s.SaveState(context.Background(), nil))
	assert.Error(t, s.SaveState(context.Background(), &domain.UserState{}))
}

func TestStoreNeverAliasesCallers(t *testing.T) {
	t.Parallel()
	s := NewMemoryStateStore(nil)
	ctx := context.Background()

	state, err := s.GetState(ctx, "user-1")
	require.NoError(t, err)

	goal, err := domain.NewGoal("Goal", domain.GoalTypeExam,
		time.Now().UTC().AddDate(0, 0, 7), 3, "", []string{"Topic"})
	require.NoError(t, err)
	state.Goals = append(state.Goals, *goal)
	require.NoError(t, s.SaveState(ctx, state))

	// Mutating the saved value after the fact must not leak into the store.
	state.Goals[0].Title = "mutated after save"

	first, err := s.GetState(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Goal", first.Goals[0].Title)

	// Mutating one read must not leak into the next.
	first.Goals[0].Title = "mutated after read"

	second, err := s.GetState(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Goal", second.Goals[0].Title)
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()
	s := NewMemoryStateStore(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := s.GetState(ctx, "shared")
			assert.NoError(t, err)
			assert.NoError(t, s.SaveState(ctx, state))
		}()
	}
	wg.Wait()

	state, err := s.GetState(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "shared", state.UserID)
}
