package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StudySession-specific validation errors
var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = fmt.Errorf("%w: session ID cannot be empty", ErrValidation)

	// ErrSessionTopicIDEmpty is returned when a session's topic ID is empty or nil.
	ErrSessionTopicIDEmpty = fmt.Errorf("%w: session topic ID cannot be empty", ErrValidation)

	// ErrSessionGoalIDEmpty is returned when a session's goal ID is empty or nil.
	ErrSessionGoalIDEmpty = fmt.Errorf("%w: session goal ID cannot be empty", ErrValidation)

	// ErrSessionDateZero is returned when a session's date is unset.
	ErrSessionDateZero = fmt.Errorf("%w: session date cannot be empty", ErrValidation)

	// ErrSessionDurationNegative is returned when a session's duration is negative.
	ErrSessionDurationNegative = fmt.Errorf("%w: session duration cannot be negative", ErrValidation)
)

// StudySession is an immutable log record of time spent on a topic.
// Sessions are never mutated after creation and are removed only as a
// cascade of deleting the goal they reference.
type StudySession struct {
	ID              uuid.UUID `json:"id"`
	TopicID         uuid.UUID `json:"topic_id"`
	GoalID          uuid.UUID `json:"goal_id"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes,omitempty"`
}

// NewStudySession creates a new StudySession with a generated ID.
// The topic and goal IDs are validated for shape only; referential checks
// against the user's state happen in the service layer.
// Returns an error if validation fails.
func NewStudySession(
	topicID, goalID uuid.UUID,
	date time.Time,
	durationMinutes int,
	notes string,
) (*StudySession, error) {
	session := &StudySession{
		ID:              uuid.New(),
		TopicID:         topicID,
		GoalID:          goalID,
		Date:            date.UTC(),
		DurationMinutes: durationMinutes,
		Notes:           notes,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the StudySession has valid data.
// Returns an error if any field fails validation.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.TopicID == uuid.Nil {
		return ErrSessionTopicIDEmpty
	}

	if s.GoalID == uuid.Nil {
		return ErrSessionGoalIDEmpty
	}

	if s.Date.IsZero() {
		return ErrSessionDateZero
	}

	if s.DurationMinutes < 0 {
		return ErrSessionDurationNegative
	}

	return nil
}

// DateKey returns the calendar-day key ("YYYY-MM-DD", UTC) the session falls
// on. This is the key used to match a session against a stored daily plan.
func (s *StudySession) DateKey() string {
	return s.Date.UTC().Format(PlanDateLayout)
}
