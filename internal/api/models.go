package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/service"
)

// CreateGoalRequest represents the request body for creating a goal.
// Topics lists topic names; one unreviewed topic is created per name.
type CreateGoalRequest struct {
	Title    string    `json:"title"    validate:"required,max=500"`
	Type     string    `json:"type"     validate:"required,oneof=exam project commitment"`
	Deadline time.Time `json:"deadline" validate:"required"`
	Priority int       `json:"priority" validate:"required,min=1,max=5"`
	Status   string    `json:"status"   validate:"omitempty,oneof=active completed archived"`
	Topics   []string  `json:"topics"   validate:"omitempty,dive,required,max=500"`
}

// UpdateGoalRequest represents the request body for a partial goal update.
// Absent fields are left unchanged.
type UpdateGoalRequest struct {
	Title    *string    `json:"title,omitempty"    validate:"omitempty,max=500"`
	Type     *string    `json:"type,omitempty"     validate:"omitempty,oneof=exam project commitment"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Priority *int       `json:"priority,omitempty" validate:"omitempty,min=1,max=5"`
	Status   *string    `json:"status,omitempty"   validate:"omitempty,oneof=active completed archived"`
}

// AddTopicRequest represents the request body for adding a topic to a goal.
type AddTopicRequest struct {
	Name  string `json:"name"  validate:"required,max=500"`
	Notes string `json:"notes" validate:"omitempty,max=5000"`
}

// RecordSessionRequest represents the request body for recording a study
// session against a topic.
type RecordSessionRequest struct {
	TopicID         string    `json:"topic_id"         validate:"required,uuid"`
	GoalID          string    `json:"goal_id"          validate:"required,uuid"`
	Date            time.Time `json:"date"             validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=1"`
	Notes           string    `json:"notes"            validate:"omitempty,max=5000"`
}

// PlannedTaskRequest represents one task inside a stored plan request.
type PlannedTaskRequest struct {
	TopicID          string `json:"topic_id"          validate:"required,uuid"`
	GoalID           string `json:"goal_id"           validate:"required,uuid"`
	Type             string `json:"type"              validate:"required,oneof=study review project_work"`
	EstimatedMinutes int    `json:"estimated_minutes" validate:"required,min=1"`
	Priority         int    `json:"priority"          validate:"required,min=1,max=5"`
	Reasoning        string `json:"reasoning"         validate:"omitempty,max=5000"`
}

// StorePlanRequest represents the request body for storing a daily plan.
// Storing a plan for a date that already has one replaces it.
type StorePlanRequest struct {
	Date      string               `json:"date"      validate:"required"`
	Reasoning string               `json:"reasoning" validate:"omitempty,max=10000"`
	Tasks     []PlannedTaskRequest `json:"tasks"     validate:"required,min=1,dive"`
}

// GeneratePlanRequest represents the request body for generating a plan.
type GeneratePlanRequest struct {
	Date string `json:"date" validate:"required"`
}

// toGoalPayload converts the request into the service-layer payload.
func (req *CreateGoalRequest) toGoalPayload() service.GoalPayload {
	return service.GoalPayload{
		Title:    req.Title,
		Type:     domain.GoalType(req.Type),
		Deadline: req.Deadline,
		Priority: req.Priority,
		Status:   domain.GoalStatus(req.Status),
		Topics:   req.Topics,
	}
}

// toGoalUpdate converts the request into the service-layer partial update.
func (req *UpdateGoalRequest) toGoalUpdate() service.GoalUpdate {
	update := service.GoalUpdate{
		Title:    req.Title,
		Deadline: req.Deadline,
		Priority: req.Priority,
	}
	if req.Type != nil {
		goalType := domain.GoalType(*req.Type)
		update.Type = &goalType
	}
	if req.Status != nil {
		status := domain.GoalStatus(*req.Status)
		update.Status = &status
	}
	return update
}

// toPlannedTasks converts request tasks into domain tasks. Task IDs have
// already passed uuid tag validation.
func toPlannedTasks(tasks []PlannedTaskRequest) []domain.PlannedTask {
	out := make([]domain.PlannedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, domain.PlannedTask{
			TopicID:          uuid.MustParse(t.TopicID),
			GoalID:           uuid.MustParse(t.GoalID),
			Type:             domain.TaskType(t.Type),
			EstimatedMinutes: t.EstimatedMinutes,
			Priority:         t.Priority,
			Reasoning:        t.Reasoning,
		})
	}
	return out
}
