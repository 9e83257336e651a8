package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudySession(t *testing.T) {
	t.Parallel()
	topicID := uuid.New()
	goalID := uuid.New()

	t.Run("creates a valid session in UTC", func(t *testing.T) {
		t.Parallel()
		loc := time.FixedZone("UTC+9", 9*3600)
		local := time.Date(2026, 3, 15, 23, 30, 0, 0, loc)

		session, err := NewStudySession(topicID, goalID, local, 45, "worked through examples")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, session.ID)
		assert.Equal(t, time.UTC, session.Date.Location())
		assert.True(t, session.Date.Equal(local))
		assert.Equal(t, 45, session.DurationMinutes)
	})

	t.Run("zero duration is allowed", func(t *testing.T) {
		t.Parallel()
		_, err := NewStudySession(topicID, goalID, time.Now().UTC(), 0, "")
		assert.NoError(t, err)
	})

	testCases := []struct {
		name        string
		topicID     uuid.UUID
		goalID      uuid.UUID
		date        time.Time
		duration    int
		expectedErr error
	}{
		{
			name:        "missing topic ID",
			goalID:      goalID,
			date:        time.Now().UTC(),
			duration:    30,
			expectedErr: ErrSessionTopicIDEmpty,
		},
		{
			name:        "missing goal ID",
			topicID:     topicID,
			date:        time.Now().UTC(),
			duration:    30,
			expectedErr: ErrSessionGoalIDEmpty,
		},
		{
			name:        "zero date",
			topicID:     topicID,
			goalID:      goalID,
			duration:    30,
			expectedErr: ErrSessionDateZero,
		},
		{
			name:        "negative duration",
			topicID:     topicID,
			goalID:      goalID,
			date:        time.Now().UTC(),
			duration:    -5,
			expectedErr: ErrSessionDurationNegative,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewStudySession(tc.topicID, tc.goalID, tc.date, tc.duration, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestStudySessionDateKey(t *testing.T) {
	t.Parallel()

	// A late evening east of UTC falls on the previous UTC day.
	loc := time.FixedZone("UTC+9", 9*3600)
	local := time.Date(2026, 3, 16, 6, 30, 0, 0, loc)

	session, err := NewStudySession(uuid.New(), uuid.New(), local, 30, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", session.DateKey())
}
