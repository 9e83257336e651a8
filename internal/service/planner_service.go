// Package service implements the planner's mutation and query operations
// against the per-user state store. Every operation follows the same shape:
// load state, validate, mutate an in-memory copy, persist and return the
// affected entity, or fail without persisting anything. Mutations for the
// same user key are serialized behind a per-key mutex; different user keys
// never contend.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/domain/sched"
	"github.com/studyloop/studyloop-api/internal/generation"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// PlannerService provides all study-planning operations for a user key.
type PlannerService interface {
	// AddGoal creates a goal (with one unreviewed topic per supplied topic
	// name) and appends it to the user's state.
	AddGoal(ctx context.Context, userKey string, payload GoalPayload) (*domain.Goal, error)

	// UpdateGoal merges a partial update over an existing goal, preserving
	// its ID and creation timestamp unconditionally.
	UpdateGoal(ctx context.Context, userKey string, goalID uuid.UUID, update GoalUpdate) (*domain.Goal, error)

	// DeleteGoal removes a goal and cascades: all sessions referencing it
	// are removed, and its tasks are stripped from every stored daily plan.
	DeleteGoal(ctx context.Context, userKey string, goalID uuid.UUID) error

	// AddTopic appends a new topic to an existing goal.
	AddTopic(ctx context.Context, userKey string, goalID uuid.UUID, payload TopicPayload) (*domain.Topic, error)

	// RecordSession logs a study session and updates the referenced topic's
	// review history and mastery level. If the session's calendar day has a
	// stored plan, any planned task for the same topic is retired from it.
	RecordSession(ctx context.Context, userKey string, payload SessionPayload) (*domain.StudySession, error)

	// GetTopicsNeedingReview returns the topics of active goals that are due
	// for review, most urgent first. Read-only.
	GetTopicsNeedingReview(ctx context.Context, userKey string) ([]ReviewTopic, error)

	// GetGoalsWithDecay returns every goal with a decay level attached to
	// each topic, regardless of goal status. Read-only.
	GetGoalsWithDecay(ctx context.Context, userKey string) ([]GoalWithDecay, error)

	// GetGoal returns a single goal with decay levels attached. Read-only.
	GetGoal(ctx context.Context, userKey string, goalID uuid.UUID) (*GoalWithDecay, error)

	// GetState returns the user's full state. Read-only.
	GetState(ctx context.Context, userKey string) (*domain.UserState, error)

	// GeneratePlanForDate produces and stores a daily plan for the given
	// date, consulting the external plan generator when one is configured
	// and falling back to a locally computed minimal plan when it fails or
	// returns no usable tasks.
	GeneratePlanForDate(ctx context.Context, userKey, date string) (*domain.DailyPlan, error)

	// StoreDailyPlan validates and stores a plan for the given date,
	// replacing any existing plan for that date atomically.
	StoreDailyPlan(ctx context.Context, userKey, date, reasoning string, tasks []domain.PlannedTask) (*domain.DailyPlan, error)

	// GetDailyPlan returns the stored plan for a date. Read-only.
	GetDailyPlan(ctx context.Context, userKey, date string) (*domain.DailyPlan, error)

	// ListDailyPlans returns all stored plans, newest date first. Read-only.
	ListDailyPlans(ctx context.Context, userKey string) ([]domain.DailyPlan, error)

	// DeleteDailyPlan removes the plan for a date. Deleting an absent plan
	// is a no-op success.
	DeleteDailyPlan(ctx context.Context, userKey, date string) error
}

// plannerServiceImpl implements the PlannerService interface.
type plannerServiceImpl struct {
	store     store.StateStore
	sched     sched.Service
	generator generation.PlanGenerator
	logger    *slog.Logger
	locks     *keyMutex
	now       func() time.Time
}

// NewPlannerService creates a new PlannerService. The generator may be nil,
// in which case plan generation always uses the local fallback.
// It returns an error if any other required dependency is nil.
func NewPlannerService(
	stateStore store.StateStore,
	schedService sched.Service,
	generator generation.PlanGenerator,
	log *slog.Logger,
) (PlannerService, error) {
	if stateStore == nil {
		return nil, domain.NewValidationError("stateStore", "cannot be nil", domain.ErrValidation)
	}
	if schedService == nil {
		return nil, domain.NewValidationError("schedService", "cannot be nil", domain.ErrValidation)
	}

	if log == nil {
		log = slog.Default()
	}

	return &plannerServiceImpl{
		store:     stateStore,
		sched:     schedService,
		generator: generator,
		logger:    log.With(slog.String("component", "planner_service")),
		locks:     newKeyMutex(),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// AddGoal implements PlannerService.AddGoal.
func (s *plannerServiceImpl) AddGoal(
	ctx context.Context,
	userKey string,
	payload GoalPayload,
) (*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(userKey)
	defer unlock()

	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("add_goal", "failed to load state", err)
	}

	goal, err := domain.NewGoal(
		payload.Title,
		payload.Type,
		payload.Deadline,
		payload.Priority,
		payload.Status,
		payload.Topics,
	)
	if err != nil {
		log.Warn("goal payload failed validation",
			slog.String("error", err.Error()),
			slog.String("user_key", userKey))
		return nil, NewPlannerError("add_goal", "invalid goal payload", err)
	}

	state.Goals = append(state.Goals, *goal)

	if err := s.store.SaveState(ctx, state); err != nil {
		return nil, NewPlannerError("add_goal", "failed to persist state", err)
	}

	log.Info("goal created",
		slog.String("user_key", userKey),
		slog.String("goal_id", goal.ID.String()),
		slog.Int("topic_count", len(goal.Topics)))
	return goal, nil
}

// UpdateGoal implements PlannerService.UpdateGoal.
// The goal's ID and CreatedAt survive any update payload by construction:
// the merge only ever touches the updatable fields.
func (s *plannerServiceImpl) UpdateGoal(
	ctx context.Context,
	userKey string,
	goalID uuid.UUID,
	update GoalUpdate,
) (*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(userKey)
	defer unlock()

	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("update_goal", "failed to load state", err)
	}

	goal := state.FindGoal(goalID)
	if goal == nil {
		return nil, NewPlannerError("update_goal", "goal not found", store.ErrGoalNotFound)
	}

	if update.Title != nil {
		goal.Title = *update.Title
	}
	if update.Type != nil {
		goal.Type = *update.Type
	}
	if update.Deadline != nil {
		goal.Deadline = *update.Deadline
	}
	if update.Priority != nil {
		goal.Priority = *update.Priority
	}
	if update.Status != nil {
		goal.Status = *update.Status
	}

	if err := goal.Validate(); err != nil {
		log.Warn("goal update failed validation",
			slog.String("error", err.Error()),
			slog.String("goal_id", goalID.String()))
		return nil, NewPlannerError("update_goal", "invalid goal update", err)
	}

	if err := s.store.SaveState(ctx, state); err != nil {
		return nil, NewPlannerError("update_goal", "failed to persist state", err)
	}

	log.Info("goal updated",
		slog.String("user_key", userKey),
		slog.String("goal_id", goalID.String()))
	return goal, nil
}

// DeleteGoal implements PlannerService.DeleteGoal.
// Cascade: sessions referencing the goal are removed outright; stored plans
// lose their tasks for the goal but the plans themselves remain.
func (s *plannerServiceImpl) DeleteGoal(
	ctx context.Context,
	userKey string,
	goalID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(userKey)
	defer unlock()

	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return NewPlannerError("delete_goal", "failed to load state", err)
	}

	if state.FindGoal(goalID) == nil {
		return NewPlannerError("delete_goal", "goal not found", store.ErrGoalNotFound)
	}

	goals := state.Goals[:0]
	for _, g := range state.Goals {
		if g.ID != goalID {
			goals = append(goals, g)
		}
	}
	state.Goals = goals

	sessions := state.Sessions[:0]
	removedSessions := 0
	for _, sess := range state.Sessions {
		if sess.GoalID == goalID {
			removedSessions++
			continue
		}
		sessions = append(sessions, sess)
	}
	state.Sessions = sessions

	removedTasks := 0
	for i := range state.DailyPlans {
		tasks := state.DailyPlans[i].Tasks[:0]
		for _, task := range state.DailyPlans[i].Tasks {
			if task.GoalID == goalID {
				removedTasks++
				continue
			}
			tasks = append(tasks, task)
		}
		state.DailyPlans[i].Tasks = tasks
	}

	if err := s.store.SaveState(ctx, state); err != nil {
		return NewPlannerError("delete_goal", "failed to persist state", err)
	}

	log.Info("goal deleted",
		slog.String("user_key", userKey),
		slog.String("goal_id", goalID.String()),
		slog.Int("removed_sessions", removedSessions),
		slog.Int("removed_plan_tasks", removedTasks))
	return nil
}

// AddTopic implements PlannerService.AddTopic.
func (s *plannerServiceImpl) AddTopic(
	ctx context.Context,
	userKey string,
	goalID uuid.UUID,
	payload TopicPayload,
) (*domain.Topic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(userKey)
	defer unlock()

	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("add_topic", "failed to load state", err)
	}

	goal := state.FindGoal(goalID)
	if goal == nil {
		return nil, NewPlannerError("add_topic", "goal not found", store.ErrGoalNotFound)
	}

	topic, err := domain.NewTopic(goal.ID, payload.Name, payload.Notes)
	if err != nil {
		log.Warn("topic payload failed validation",
			slog.String("error", err.Error()),
			slog.String("goal_id", goalID.String()))
		return nil, NewPlannerError("add_topic", "invalid topic payload", err)
	}

	goal.Topics = append(goal.Topics, *topic)

	if err := s.store.SaveState(ctx, state); err != nil {
		return nil, NewPlannerError("add_topic", "failed to persist state", err)
	}

	log.Info("topic added",
		slog.String("user_key", userKey),
		slog.String("goal_id", goalID.String()),
		slog.String("topic_id", topic.ID.String()))
	return topic, nil
}
