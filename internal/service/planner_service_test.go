package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/domain/sched"
	"github.com/studyloop/studyloop-api/internal/generation"
	"github.com/studyloop/studyloop-api/internal/platform/memstore"
	"github.com/studyloop/studyloop-api/internal/store"
)

// testNow is the frozen clock used by every service test.
var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

const testUserKey = "user-1"

// newTestService builds a planner service over a fresh in-memory store with
// a frozen clock. The generator may be nil.
func newTestService(t *testing.T, generator generation.PlanGenerator) (PlannerService, store.StateStore) {
	t.Helper()

	stateStore := memstore.NewMemoryStateStore(nil)
	svc, err := NewPlannerService(stateStore, sched.NewDefaultService(), generator, nil)
	require.NoError(t, err)

	svc.(*plannerServiceImpl).now = func() time.Time { return testNow }
	return svc, stateStore
}

// seedGoal creates a goal with the given topic names through the service.
func seedGoal(t *testing.T, svc PlannerService, topics ...string) *domain.Goal {
	t.Helper()

	goal, err := svc.AddGoal(context.Background(), testUserKey, GoalPayload{
		Title:    "Pass algorithms exam",
		Type:     domain.GoalTypeExam,
		Deadline: testNow.AddDate(0, 0, 14),
		Priority: 4,
		Topics:   topics,
	})
	require.NoError(t, err)
	return goal
}

func TestNewPlannerService(t *testing.T) {
	t.Parallel()

	stateStore := memstore.NewMemoryStateStore(nil)

	t.Run("rejects nil store", func(t *testing.T) {
		t.Parallel()
		_, err := NewPlannerService(nil, sched.NewDefaultService(), nil, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects nil scheduler", func(t *testing.T) {
		t.Parallel()
		_, err := NewPlannerService(stateStore, nil, nil, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("generator is optional", func(t *testing.T) {
		t.Parallel()
		svc, err := NewPlannerService(stateStore, sched.NewDefaultService(), nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestAddGoal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates and persists the goal", func(t *testing.T) {
		t.Parallel()
		svc, stateStore := newTestService(t, nil)

		goal := seedGoal(t, svc, "Graphs", "Dynamic programming")
		assert.Equal(t, domain.GoalStatusActive, goal.Status)
		require.Len(t, goal.Topics, 2)

		state, err := stateStore.GetState(ctx, testUserKey)
		require.NoError(t, err)
		require.Len(t, state.Goals, 1)
		assert.Equal(t, goal.ID, state.Goals[0].ID)
	})

	t.Run("invalid payload persists nothing", func(t *testing.T) {
		t.Parallel()
		svc, stateStore := newTestService(t, nil)

		_, err := svc.AddGoal(ctx, testUserKey, GoalPayload{
			Title:    "",
			Type:     domain.GoalTypeExam,
			Deadline: testNow.AddDate(0, 0, 14),
			Priority: 3,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)

		state, getErr := stateStore.GetState(ctx, testUserKey)
		require.NoError(t, getErr)
		assert.Empty(t, state.Goals)
	})

	t.Run("wraps errors with the operation", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t, nil)

		_, err := svc.AddGoal(ctx, testUserKey, GoalPayload{Priority: 9})
		var plannerErr *PlannerError
		require.ErrorAs(t, err, &plannerErr)
		assert.Equal(t, "add_goal", plannerErr.Operation)
	})
}

func TestUpdateGoal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("merges only the provided fields", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t, nil)
		goal := seedGoal(t, svc, "Graphs")

		newTitle := "Pass the final"
		newPriority := 5
		updated, err := svc.UpdateGoal(ctx, testUserKey, goal.ID, GoalUpdate{
			Title:    &newTitle,
			Priority: &newPriority,
		})
		require.NoError(t, err)

		assert.Equal(t, "Pass the final", updated.Title)
		assert.Equal(t, 5, updated.Priority)
		assert.Equal(t, goal.Type, updated.Type)
		assert.True(t, goal.Deadline.Equal(updated.Deadline))

		// Identity survives any update.
		assert.Equal(t, goal.ID, updated.ID)
		assert.True(t, goal.CreatedAt.Equal(updated.CreatedAt))
		require.Len(t, updated.Topics, 1)
	})

	t.Run("unknown goal", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t, nil)
		seedGoal(t, svc, "Graphs")

		title := "new"
		_, err := svc.UpdateGoal(ctx, testUserKey, uuid.New(), GoalUpdate{Title: &title})
		assert.ErrorIs(t, err, store.ErrGoalNotFound)
	})

	t.Run("invalid update persists nothing", func(t *testing.T) {
		t.Parallel()
		svc, stateStore := newTestService(t, nil)
		goal := seedGoal(t, svc, "Graphs")

		badPriority := 9
		_, err := svc.UpdateGoal(ctx, testUserKey, goal.ID, GoalUpdate{Priority: &badPriority})
		require.ErrorIs(t, err, domain.ErrValidation)

		state, getErr := stateStore.GetState(ctx, testUserKey)
		require.NoError(t, getErr)
		assert.Equal(t, 4, state.Goals[0].Priority)
	})
}

func TestDeleteGoal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("cascades to sessions and plan tasks", func(t *testing.T) {
		t.Parallel()
		svc, stateStore := newTestService(t, nil)
		doomed := seedGoal(t, svc, "Graphs")
		survivor := seedGoal(t, svc, "Verb conjugation")

		for _, goal := range []*domain.Goal{doomed, survivor} {
			_, err := svc.RecordSession(ctx, testUserKey, SessionPayload{
				TopicID:         goal.Topics[0].ID,
				GoalID:          goal.ID,
				Date:            testNow.AddDate(0, 0, -1),
				DurationMinutes: 30,
			})
			require.NoError(t, err)
		}

		_, err := svc.StoreDailyPlan(ctx, testUserKey, "2026-03-16", "", []domain.PlannedTask{
			{
				TopicID:          doomed.Topics[0].ID,
				GoalID:           doomed.ID,
				Type:             domain.TaskTypeReview,
				EstimatedMinutes: 30,
				Priority:         3,
			},
			{
				TopicID:          survivor.Topics[0].ID,
				GoalID:           survivor.ID,
				Type:             domain.TaskTypeStudy,
				EstimatedMinutes: 45,
				Priority:         2,
			},
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteGoal(ctx, testUserKey, doomed.ID))

		state, err := stateStore.GetState(ctx, testUserKey)
		require.NoError(t, err)

		require.Len(t, state.Goals, 1)
		assert.Equal(t, survivor.ID, state.Goals[0].ID)

		require.Len(t, state.Sessions, 1)
		assert.Equal(t, survivor.ID, state.Sessions[0].GoalID)

		// The plan survives with only the other goal's task.
		require.Len(t, state.DailyPlans, 1)
		require.Len(t, state.DailyPlans[0].Tasks, 1)
		assert.Equal(t, survivor.ID, state.DailyPlans[0].Tasks[0].GoalID)
	})

	t.Run("unknown goal leaves state unchanged", func(t *testing.T) {
		t.Parallel()
		svc, stateStore := newTestService(t, nil)
		seedGoal(t, svc, "Graphs")

		err := svc.DeleteGoal(ctx, testUserKey, uuid.New())
		assert.ErrorIs(t, err, store.ErrGoalNotFound)

		state, getErr := stateStore.GetState(ctx, testUserKey)
		require.NoError(t, getErr)
		assert.Len(t, state.Goals, 1)
	})
}

func TestAddTopic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("appends an unreviewed topic", func(t *testing.T) {
		t.Parallel()
		svc, stateStore := newTestService(t, nil)
		goal := seedGoal(t, svc, "Graphs")

		topic, err := svc.AddTopic(ctx, testUserKey, goal.ID, TopicPayload{
			Name:  "Shortest paths",
			Notes: "Dijkstra first",
		})
		require.NoError(t, err)

		assert.Equal(t, goal.ID, topic.GoalID)
		assert.Nil(t, topic.LastReviewed)
		assert.Zero(t, topic.MasteryLevel)

		state, err := stateStore.GetState(ctx, testUserKey)
		require.NoError(t, err)
		require.Len(t, state.Goals[0].Topics, 2)
		assert.Equal(t, "Shortest paths", state.Goals[0].Topics[1].Name)
	})

	t.Run("unknown goal", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t, nil)

		_, err := svc.AddTopic(ctx, testUserKey, uuid.New(), TopicPayload{Name: "Anything"})
		assert.ErrorIs(t, err, store.ErrGoalNotFound)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t, nil)
		goal := seedGoal(t, svc, "Graphs")

		_, err := svc.AddTopic(ctx, testUserKey, goal.ID, TopicPayload{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
