package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() PlannedTask {
	return PlannedTask{
		TopicID:          uuid.New(),
		GoalID:           uuid.New(),
		Type:             TaskTypeStudy,
		EstimatedMinutes: 45,
		Priority:         3,
		Reasoning:        "weakest topic",
	}
}

func TestValidatePlanDate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{name: "valid date", date: "2026-03-15", wantErr: false},
		{name: "empty", date: "", wantErr: true},
		{name: "wrong layout", date: "15-03-2026", wantErr: true},
		{name: "timestamp not accepted", date: "2026-03-15T00:00:00Z", wantErr: true},
		{name: "impossible day", date: "2026-02-30", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePlanDate(tc.date)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewDailyPlan(t *testing.T) {
	t.Parallel()

	t.Run("creates a valid plan", func(t *testing.T) {
		t.Parallel()
		plan, err := NewDailyPlan("2026-03-15", "catching up", []PlannedTask{validTask()})
		require.NoError(t, err)

		assert.Equal(t, "2026-03-15", plan.Date)
		assert.False(t, plan.GeneratedAt.IsZero())
		assert.Len(t, plan.Tasks, 1)
	})

	t.Run("rejects a bad date", func(t *testing.T) {
		t.Parallel()
		_, err := NewDailyPlan("March 15", "", []PlannedTask{validTask()})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects an invalid task", func(t *testing.T) {
		t.Parallel()
		task := validTask()
		task.TopicID = uuid.Nil
		_, err := NewDailyPlan("2026-03-15", "", []PlannedTask{task})
		assert.ErrorIs(t, err, ErrPlanTaskTopicIDEmpty)
	})
}

func TestPlannedTaskValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()
		task := validTask()
		assert.NoError(t, task.Validate())
	})

	t.Run("missing goal ID", func(t *testing.T) {
		t.Parallel()
		task := validTask()
		task.GoalID = uuid.Nil
		assert.ErrorIs(t, task.Validate(), ErrPlanTaskGoalIDEmpty)
	})

	t.Run("invalid type", func(t *testing.T) {
		t.Parallel()
		task := validTask()
		task.Type = TaskType("cramming")
		assert.ErrorIs(t, task.Validate(), ErrInvalidTaskType)
	})
}

func TestTaskTypeIsValid(t *testing.T) {
	t.Parallel()
	assert.True(t, TaskTypeStudy.IsValid())
	assert.True(t, TaskTypeReview.IsValid())
	assert.True(t, TaskTypeProjectWork.IsValid())
	assert.False(t, TaskType("").IsValid())
}
