package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GoalType classifies what kind of commitment a goal tracks.
type GoalType string

// Possible goal type values
const (
	GoalTypeExam       GoalType = "exam"
	GoalTypeProject    GoalType = "project"
	GoalTypeCommitment GoalType = "commitment"
)

// GoalStatus represents the lifecycle state of a goal.
type GoalStatus string

// Possible goal status values
const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusArchived  GoalStatus = "archived"
)

// Goal-specific validation errors, all wrapping ErrValidation so callers can
// classify them with a single errors.Is check.
var (
	// ErrGoalIDEmpty is returned when a goal ID is empty or nil.
	ErrGoalIDEmpty = fmt.Errorf("%w: goal ID cannot be empty", ErrValidation)

	// ErrGoalTitleEmpty is returned when a goal's title is empty.
	ErrGoalTitleEmpty = fmt.Errorf("%w: goal title cannot be empty", ErrValidation)

	// ErrGoalDeadlineZero is returned when a goal's deadline is unset.
	ErrGoalDeadlineZero = fmt.Errorf("%w: goal deadline cannot be empty", ErrValidation)
)

// Goal represents a tracked commitment such as an exam, a project, or a
// recurring obligation. A goal exclusively owns its topics; topics hold a
// non-owning back-reference via Topic.GoalID.
type Goal struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Type      GoalType   `json:"type"`
	Deadline  time.Time  `json:"deadline"`
	Priority  int        `json:"priority"`
	Status    GoalStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	Topics    []Topic    `json:"topics"`
}

// NewGoal creates a new Goal with the given attributes, generating a fresh
// UUID and creation timestamp. One Topic is created per entry in topicNames,
// each starting unreviewed with zero mastery. status defaults to active when
// empty. Returns an error if validation fails.
func NewGoal(
	title string,
	goalType GoalType,
	deadline time.Time,
	priority int,
	status GoalStatus,
	topicNames []string,
) (*Goal, error) {
	if status == "" {
		status = GoalStatusActive
	}

	goal := &Goal{
		ID:        uuid.New(),
		Title:     title,
		Type:      goalType,
		Deadline:  deadline,
		Priority:  priority,
		Status:    status,
		CreatedAt: time.Now().UTC(),
		Topics:    make([]Topic, 0, len(topicNames)),
	}

	for _, name := range topicNames {
		topic, err := NewTopic(goal.ID, name, "")
		if err != nil {
			return nil, err
		}
		goal.Topics = append(goal.Topics, *topic)
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	return goal, nil
}

// Validate checks if the Goal has valid data.
// Returns an error if any field fails validation.
func (g *Goal) Validate() error {
	if g.ID == uuid.Nil {
		return ErrGoalIDEmpty
	}

	if g.Title == "" {
		return ErrGoalTitleEmpty
	}

	if !g.Type.IsValid() {
		return ErrInvalidGoalType
	}

	if g.Deadline.IsZero() {
		return ErrGoalDeadlineZero
	}

	if g.Priority < 1 || g.Priority > 5 {
		return ErrInvalidPriority
	}

	if !g.Status.IsValid() {
		return ErrInvalidGoalStatus
	}

	return nil
}

// IsValid reports whether the goal type is one of the recognized values.
func (t GoalType) IsValid() bool {
	switch t {
	case GoalTypeExam, GoalTypeProject, GoalTypeCommitment:
		return true
	default:
		return false
	}
}

// IsValid reports whether the goal status is one of the recognized values.
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusArchived:
		return true
	default:
		return false
	}
}

// FindTopic returns a pointer to the topic with the given ID, or nil if the
// goal does not own such a topic.
func (g *Goal) FindTopic(topicID uuid.UUID) *Topic {
	for i := range g.Topics {
		if g.Topics[i].ID == topicID {
			return &g.Topics[i]
		}
	}
	return nil
}
