package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/domain/sched"
)

// GoalPayload carries the fields for creating a goal. Topics lists topic
// names; one unreviewed topic is created per name.
type GoalPayload struct {
	Title    string
	Type     domain.GoalType
	Deadline time.Time
	Priority int
	Status   domain.GoalStatus
	Topics   []string
}

// GoalUpdate carries a partial goal update. Nil fields are left unchanged.
// ID and CreatedAt are never updatable regardless of payload contents.
type GoalUpdate struct {
	Title    *string
	Type     *domain.GoalType
	Deadline *time.Time
	Priority *int
	Status   *domain.GoalStatus
}

// TopicPayload carries the fields for adding a topic to an existing goal.
type TopicPayload struct {
	Name  string
	Notes string
}

// SessionPayload carries the fields for recording a study session.
type SessionPayload struct {
	TopicID         uuid.UUID
	GoalID          uuid.UUID
	Date            time.Time
	DurationMinutes int
	Notes           string
}

// ReviewTopic is a topic due for review, annotated with its owning goal's
// title for presentation. The ranking urgency used to order the queue is
// internal and deliberately not part of the view.
type ReviewTopic struct {
	domain.Topic
	GoalTitle string `json:"goal_title"`
}

// TopicWithDecay is a topic annotated with its current memory-decay level.
type TopicWithDecay struct {
	domain.Topic
	DecayLevel sched.DecayLevel `json:"decay_level"`
}

// GoalWithDecay is a read-only projection of a goal with decay levels
// attached to every topic.
type GoalWithDecay struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Type      domain.GoalType   `json:"type"`
	Deadline  time.Time         `json:"deadline"`
	Priority  int               `json:"priority"`
	Status    domain.GoalStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Topics    []TopicWithDecay  `json:"topics"`
}
