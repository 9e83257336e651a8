package sched

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/studyloop-api/internal/domain"
)

func TestNewDefaultService(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	require.NotNil(t, service)

	defaultService, ok := service.(*defaultService)
	require.True(t, ok, "Expected *defaultService type")
	require.NotNil(t, defaultService.params)
}

func TestReviewInterval(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	testCases := []struct {
		name        string
		reviewCount int
		expected    int
	}{
		{name: "never reviewed", reviewCount: 0, expected: 1},
		{name: "one review", reviewCount: 1, expected: 3},
		{name: "two reviews", reviewCount: 2, expected: 7},
		{name: "three reviews", reviewCount: 3, expected: 14},
		{name: "four reviews", reviewCount: 4, expected: 30},
		{name: "past the table uses the cap", reviewCount: 5, expected: 30},
		{name: "far past the table uses the cap", reviewCount: 50, expected: 30},
		{name: "negative count treated as zero", reviewCount: -1, expected: 1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, service.ReviewInterval(tc.reviewCount))
		})
	}
}

func TestDecayLevel(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	daysAgo := func(d int) *time.Time {
		ts := now.AddDate(0, 0, -d)
		return &ts
	}

	testCases := []struct {
		name         string
		lastReviewed *time.Time
		reviewCount  int
		expected     DecayLevel
	}{
		{
			name:         "never reviewed is always red",
			lastReviewed: nil,
			reviewCount:  0,
			expected:     DecayLevelRed,
		},
		{
			// Interval at 2 reviews is 7 days: green below 3.5 days.
			name:         "well within interval is green",
			lastReviewed: daysAgo(2),
			reviewCount:  2,
			expected:     DecayLevelGreen,
		},
		{
			name:         "approaching the interval is yellow",
			lastReviewed: daysAgo(5),
			reviewCount:  2,
			expected:     DecayLevelYellow,
		},
		{
			name:         "past the interval is orange",
			lastReviewed: daysAgo(8),
			reviewCount:  2,
			expected:     DecayLevelOrange,
		},
		{
			// Orange ends at 1.5 x 7 = 10.5 days.
			name:         "badly overdue is red",
			lastReviewed: daysAgo(11),
			reviewCount:  2,
			expected:     DecayLevelRed,
		},
		{
			name:         "reviewed today is green",
			lastReviewed: daysAgo(0),
			reviewCount:  0,
			expected:     DecayLevelGreen,
		},
		{
			// Interval at 0 reviews is 1 day: a full day elapsed lands
			// in the orange band (1 < 1.5).
			name:         "one day past a one-day interval is orange",
			lastReviewed: daysAgo(1),
			reviewCount:  0,
			expected:     DecayLevelOrange,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			topic := &domain.Topic{
				ID:           uuid.New(),
				GoalID:       uuid.New(),
				Name:         "test topic",
				LastReviewed: tc.lastReviewed,
				ReviewCount:  tc.reviewCount,
			}
			assert.Equal(t, tc.expected, service.DecayLevel(topic, now))
		})
	}
}

func TestIsTopicDue(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("never reviewed is always due", func(t *testing.T) {
		t.Parallel()
		topic := &domain.Topic{ID: uuid.New(), GoalID: uuid.New(), Name: "fresh"}
		assert.True(t, service.IsTopicDue(topic, now))
	})

	t.Run("due exactly when the interval elapses", func(t *testing.T) {
		t.Parallel()
		// Interval at 1 review is 3 days.
		last := now.AddDate(0, 0, -3)
		topic := &domain.Topic{
			ID:           uuid.New(),
			GoalID:       uuid.New(),
			Name:         "boundary",
			LastReviewed: &last,
			ReviewCount:  1,
		}
		assert.True(t, service.IsTopicDue(topic, now))
	})

	t.Run("not due before the interval elapses", func(t *testing.T) {
		t.Parallel()
		last := now.AddDate(0, 0, -2)
		topic := &domain.Topic{
			ID:           uuid.New(),
			GoalID:       uuid.New(),
			Name:         "recent",
			LastReviewed: &last,
			ReviewCount:  1,
		}
		assert.False(t, service.IsTopicDue(topic, now))
	})

	t.Run("review resets the clock", func(t *testing.T) {
		t.Parallel()
		// Reviewed an hour ago with a higher count: a 7-day interval
		// pushes the next due date well past now.
		last := now.Add(-time.Hour)
		topic := &domain.Topic{
			ID:           uuid.New(),
			GoalID:       uuid.New(),
			Name:         "just reviewed",
			LastReviewed: &last,
			ReviewCount:  2,
		}
		assert.False(t, service.IsTopicDue(topic, now))
	})
}

func TestUrgencyScore(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	goal := func(deadlineDays, priority int) *domain.Goal {
		return &domain.Goal{
			ID:       uuid.New(),
			Title:    "test goal",
			Type:     domain.GoalTypeExam,
			Deadline: now.AddDate(0, 0, deadlineDays),
			Priority: priority,
			Status:   domain.GoalStatusActive,
		}
	}

	testCases := []struct {
		name     string
		goal     *domain.Goal
		expected int
	}{
		{name: "max priority due this week", goal: goal(3, 5), expected: 100},
		{name: "past deadline scores like this week", goal: goal(-10, 5), expected: 100},
		{name: "max priority two weeks out", goal: goal(10, 5), expected: 90},
		{name: "max priority a month out", goal: goal(25, 5), expected: 80},
		{name: "max priority two months out", goal: goal(50, 5), expected: 70},
		{name: "max priority far out", goal: goal(120, 5), expected: 60},
		{name: "min priority due this week", goal: goal(3, 1), expected: 60},
		{name: "min priority far out", goal: goal(120, 1), expected: 20},
		{name: "mid priority a month out", goal: goal(25, 3), expected: 60},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, service.UrgencyScore(tc.goal, now))
		})
	}

	t.Run("urgency rises with priority", func(t *testing.T) {
		t.Parallel()
		previous := -1
		for priority := 1; priority <= 5; priority++ {
			score := service.UrgencyScore(goal(25, priority), now)
			assert.Greater(t, score, previous,
				"priority %d should outrank priority %d", priority, priority-1)
			previous = score
		}
	})
}

func TestTopicUrgency(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	t.Run("decay level dominates the ranking", func(t *testing.T) {
		t.Parallel()
		// A red topic on the least urgent goal still outranks a green
		// topic on the most urgent goal.
		redLowUrgency := service.TopicUrgency(DecayLevelRed, 20)
		greenHighUrgency := service.TopicUrgency(DecayLevelGreen, 100)
		assert.Greater(t, redLowUrgency, greenHighUrgency)
	})

	t.Run("goal urgency breaks ties within a level", func(t *testing.T) {
		t.Parallel()
		assert.Greater(t,
			service.TopicUrgency(DecayLevelOrange, 90),
			service.TopicUrgency(DecayLevelOrange, 40))
	})

	t.Run("expected values", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 100.0, service.TopicUrgency(DecayLevelRed, 100), 0.0001)
		assert.InDelta(t, 24.0, service.TopicUrgency(DecayLevelGreen, 20), 0.0001)
	})
}

func TestNextMasteryLevel(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	testCases := []struct {
		name             string
		currentMastery   int
		reviewCountAfter int
		durationMinutes  int
		expected         int
	}{
		{
			// Base 20 + bonus 8, full multiplier.
			name:             "first long session from zero",
			currentMastery:   0,
			reviewCountAfter: 1,
			durationMinutes:  90,
			expected:         28,
		},
		{
			name:             "second review with an hour session",
			currentMastery:   20,
			reviewCountAfter: 2,
			durationMinutes:  60,
			expected:         43,
		},
		{
			// Base 14 at rc=3, bonus 1, multiplier 1.0 below 50.
			name:             "third review short session",
			currentMastery:   40,
			reviewCountAfter: 3,
			durationMinutes:  30,
			expected:         55,
		},
		{
			// Raw 14 scaled by 0.2 truncates to 2.
			name:             "diminishing returns near the top",
			currentMastery:   96,
			reviewCountAfter: 4,
			durationMinutes:  30,
			expected:         98,
		},
		{
			name:             "never exceeds one hundred",
			currentMastery:   99,
			reviewCountAfter: 1,
			durationMinutes:  120,
			expected:         100,
		},
		{
			// Raw 3 scaled by 0.2 truncates to 0, floored to the
			// guaranteed +1.
			name:             "a session always yields at least one point",
			currentMastery:   95,
			reviewCountAfter: 30,
			durationMinutes:  10,
			expected:         96,
		},
		{
			// Base 8 + 0 at rc=10, no bonus under 30 minutes.
			name:             "tenth review short session",
			currentMastery:   10,
			reviewCountAfter: 10,
			durationMinutes:  20,
			expected:         18,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := service.NextMasteryLevel(tc.currentMastery, tc.reviewCountAfter, tc.durationMinutes)
			assert.Equal(t, tc.expected, got)
		})
	}

	t.Run("mastery never decreases", func(t *testing.T) {
		t.Parallel()
		for mastery := 0; mastery <= 100; mastery += 5 {
			got := service.NextMasteryLevel(mastery, 50, 5)
			assert.GreaterOrEqual(t, got, mastery)
		}
	})
}
