package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlanDateLayout is the calendar-day key format for daily plans.
const PlanDateLayout = "2006-01-02"

// TaskType classifies what kind of work a planned task recommends.
type TaskType string

// Possible planned task type values
const (
	TaskTypeStudy       TaskType = "study"
	TaskTypeReview      TaskType = "review"
	TaskTypeProjectWork TaskType = "project_work"
)

// DailyPlan and PlannedTask validation errors
var (
	// ErrPlanDateEmpty is returned when a plan's date key is empty.
	ErrPlanDateEmpty = fmt.Errorf("%w: plan date cannot be empty", ErrValidation)

	// ErrPlanTaskTopicIDEmpty is returned when a planned task's topic ID is empty or nil.
	ErrPlanTaskTopicIDEmpty = fmt.Errorf("%w: planned task topic ID cannot be empty", ErrValidation)

	// ErrPlanTaskGoalIDEmpty is returned when a planned task's goal ID is empty or nil.
	ErrPlanTaskGoalIDEmpty = fmt.Errorf("%w: planned task goal ID cannot be empty", ErrValidation)
)

// PlannedTask is a single recommendation line item within a DailyPlan.
// Tasks are not persisted independently of their plan. The topic and goal
// references must resolve within the same user's state at validation time.
type PlannedTask struct {
	TopicID          uuid.UUID `json:"topic_id"`
	GoalID           uuid.UUID `json:"goal_id"`
	Type             TaskType  `json:"type"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	Priority         int       `json:"priority"`
	Reasoning        string    `json:"reasoning,omitempty"`
}

// Validate checks if the PlannedTask has valid data.
// EstimatedMinutes bounds are soft-enforced at generation time, not here.
func (t *PlannedTask) Validate() error {
	if t.TopicID == uuid.Nil {
		return ErrPlanTaskTopicIDEmpty
	}

	if t.GoalID == uuid.Nil {
		return ErrPlanTaskGoalIDEmpty
	}

	if !t.Type.IsValid() {
		return ErrInvalidTaskType
	}

	if t.Priority < 1 || t.Priority > 5 {
		return ErrInvalidPriority
	}

	return nil
}

// IsValid reports whether the task type is one of the recognized values.
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeStudy, TaskTypeReview, TaskTypeProjectWork:
		return true
	default:
		return false
	}
}

// DailyPlan holds the ordered task recommendations for one calendar date.
// A user's state holds at most one plan per date; regenerating replaces the
// stored plan atomically.
type DailyPlan struct {
	Date        string        `json:"date"`
	GeneratedAt time.Time     `json:"generated_at"`
	Tasks       []PlannedTask `json:"tasks"`
	Reasoning   string        `json:"reasoning,omitempty"`
}

// NewDailyPlan creates a new DailyPlan for the given date key.
// Returns an error if the date key is not a valid YYYY-MM-DD day or any task
// fails validation.
func NewDailyPlan(date, reasoning string, tasks []PlannedTask) (*DailyPlan, error) {
	plan := &DailyPlan{
		Date:        date,
		GeneratedAt: time.Now().UTC(),
		Tasks:       tasks,
		Reasoning:   reasoning,
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

// Validate checks if the DailyPlan has valid data.
// Returns an error if any field fails validation.
func (p *DailyPlan) Validate() error {
	if p.Date == "" {
		return ErrPlanDateEmpty
	}

	if err := ValidatePlanDate(p.Date); err != nil {
		return err
	}

	for i := range p.Tasks {
		if err := p.Tasks[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ValidatePlanDate checks that the given string is a well-formed
// YYYY-MM-DD calendar-day key.
func ValidatePlanDate(date string) error {
	if _, err := time.Parse(PlanDateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
