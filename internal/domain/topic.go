package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic-specific validation errors
var (
	// ErrTopicIDEmpty is returned when a topic ID is empty or nil.
	ErrTopicIDEmpty = fmt.Errorf("%w: topic ID cannot be empty", ErrValidation)

	// ErrTopicGoalIDEmpty is returned when a topic's goal ID is empty or nil.
	ErrTopicGoalIDEmpty = fmt.Errorf("%w: topic goal ID cannot be empty", ErrValidation)

	// ErrTopicNameEmpty is returned when a topic's name is empty.
	ErrTopicNameEmpty = fmt.Errorf("%w: topic name cannot be empty", ErrValidation)

	// ErrTopicReviewCountNegative is returned when a topic's review count is negative.
	ErrTopicReviewCountNegative = fmt.Errorf("%w: topic review count cannot be negative", ErrValidation)

	// ErrTopicMasteryOutOfRange is returned when a topic's mastery level is
	// outside [0,100].
	ErrTopicMasteryOutOfRange = fmt.Errorf("%w: topic mastery level must be between 0 and 100", ErrValidation)
)

// Topic is a reviewable unit of material within a goal. LastReviewed is nil
// until the first study session is recorded against the topic.
type Topic struct {
	ID           uuid.UUID  `json:"id"`
	GoalID       uuid.UUID  `json:"goal_id"`
	Name         string     `json:"name"`
	LastReviewed *time.Time `json:"last_reviewed,omitempty"`
	ReviewCount  int        `json:"review_count"`
	MasteryLevel int        `json:"mastery_level"`
	Notes        string     `json:"notes,omitempty"`
}

// NewTopic creates a new Topic belonging to the given goal. The topic starts
// unreviewed: no LastReviewed, zero ReviewCount, zero MasteryLevel.
// Returns an error if validation fails.
func NewTopic(goalID uuid.UUID, name, notes string) (*Topic, error) {
	topic := &Topic{
		ID:           uuid.New(),
		GoalID:       goalID,
		Name:         name,
		LastReviewed: nil,
		ReviewCount:  0,
		MasteryLevel: 0,
		Notes:        notes,
	}

	if err := topic.Validate(); err != nil {
		return nil, err
	}

	return topic, nil
}

// Validate checks if the Topic has valid data.
// Returns an error if any field fails validation.
func (t *Topic) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTopicIDEmpty
	}

	if t.GoalID == uuid.Nil {
		return ErrTopicGoalIDEmpty
	}

	if t.Name == "" {
		return ErrTopicNameEmpty
	}

	if t.ReviewCount < 0 {
		return ErrTopicReviewCountNegative
	}

	if t.MasteryLevel < 0 || t.MasteryLevel > 100 {
		return ErrTopicMasteryOutOfRange
	}

	return nil
}
