package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// Soft bounds on a planned task's estimated duration, enforced when
// accepting generator output.
const (
	minTaskMinutes = 15
	maxTaskMinutes = 180
)

// Fallback plan shape when the external generator fails or is absent.
const (
	fallbackMaxTasks    = 4
	fallbackTaskMinutes = 30
)

// StoreDailyPlan implements PlannerService.StoreDailyPlan.
//
// Every task's (goalID, topicID) pair must resolve within the user's current
// state; the check is all-or-nothing and runs before any mutation, naming
// the first offending reference. Storing replaces any existing plan for the
// date in the same persisted state value, so readers never observe a date
// with zero or two plans.
func (s *plannerServiceImpl) StoreDailyPlan(
	ctx context.Context,
	userKey, date, reasoning string,
	tasks []domain.PlannedTask,
) (*domain.DailyPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(userKey)
	defer unlock()

	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("store_plan", "failed to load state", err)
	}

	if err := domain.ValidatePlanDate(date); err != nil {
		return nil, NewPlannerError("store_plan", "invalid plan date", err)
	}

	for i := range tasks {
		goal, topic := state.FindTopic(tasks[i].GoalID, tasks[i].TopicID)
		if goal == nil {
			return nil, NewPlannerError("store_plan", "task references unknown goal",
				domain.NewValidationError("tasks",
					fmt.Sprintf("goal %s not found", tasks[i].GoalID), domain.ErrValidation))
		}
		if topic == nil {
			return nil, NewPlannerError("store_plan", "task references unknown topic",
				domain.NewValidationError("tasks",
					fmt.Sprintf("topic %s not found", tasks[i].TopicID), domain.ErrValidation))
		}
		if err := tasks[i].Validate(); err != nil {
			return nil, NewPlannerError("store_plan", "invalid planned task", err)
		}
	}

	plan, err := domain.NewDailyPlan(date, reasoning, tasks)
	if err != nil {
		return nil, NewPlannerError("store_plan", "invalid plan", err)
	}
	plan.GeneratedAt = s.now()

	// Replace any existing plan for the date.
	plans := state.DailyPlans[:0]
	for _, p := range state.DailyPlans {
		if p.Date != date {
			plans = append(plans, p)
		}
	}
	state.DailyPlans = append(plans, *plan)

	generatedAt := plan.GeneratedAt
	state.LastPlanGenerated = &generatedAt

	if err := s.store.SaveState(ctx, state); err != nil {
		return nil, NewPlannerError("store_plan", "failed to persist state", err)
	}

	log.Info("daily plan stored",
		slog.String("user_key", userKey),
		slog.String("date", date),
		slog.Int("task_count", len(plan.Tasks)))
	return plan, nil
}

// GeneratePlanForDate implements PlannerService.GeneratePlanForDate.
//
// The external generator is consulted with a read-only snapshot of the
// current state. A generator failure is never surfaced: the plan falls back
// to scheduling the most overdue topics for review. Only when the fallback
// has nothing to schedule either does the operation fail, as a validation
// error.
func (s *plannerServiceImpl) GeneratePlanForDate(
	ctx context.Context,
	userKey, date string,
) (*domain.DailyPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePlanDate(date); err != nil {
		return nil, NewPlannerError("generate_plan", "invalid plan date", err)
	}

	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("generate_plan", "failed to load state", err)
	}

	reasoning, tasks := s.proposePlan(ctx, state, date)
	if len(tasks) == 0 {
		return nil, NewPlannerError("generate_plan", "nothing to schedule",
			domain.NewValidationError("tasks", "no topics available for planning", domain.ErrValidation))
	}

	log.Debug("plan proposal ready",
		slog.String("user_key", userKey),
		slog.String("date", date),
		slog.Int("task_count", len(tasks)))

	// StoreDailyPlan re-validates references under the user-key lock, so a
	// goal deleted between snapshot and store still fails cleanly.
	return s.StoreDailyPlan(ctx, userKey, date, reasoning, tasks)
}

// proposePlan asks the external generator for a plan and sanitizes its
// output, falling back to the local minimal plan on failure or when no
// usable tasks come back.
func (s *plannerServiceImpl) proposePlan(
	ctx context.Context,
	state *domain.UserState,
	date string,
) (string, []domain.PlannedTask) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.generator != nil {
		generated, err := s.generator.GeneratePlan(ctx, state, date)
		if err != nil {
			log.Warn("external plan generation failed, using fallback",
				slog.String("error", err.Error()),
				slog.String("date", date))
		} else if usable := s.sanitizeTasks(state, generated.Tasks); len(usable) > 0 {
			return generated.Reasoning, usable
		} else {
			log.Warn("external plan generation returned no usable tasks, using fallback",
				slog.String("date", date),
				slog.Int("returned_tasks", len(generated.Tasks)))
		}
	}

	return s.fallbackPlan(state)
}

// sanitizeTasks filters generator output down to tasks whose references
// resolve in the snapshot, clamping estimated minutes and priority into
// their soft bounds.
func (s *plannerServiceImpl) sanitizeTasks(
	state *domain.UserState,
	tasks []domain.PlannedTask,
) []domain.PlannedTask {
	usable := make([]domain.PlannedTask, 0, len(tasks))
	for _, task := range tasks {
		goal, topic := state.FindTopic(task.GoalID, task.TopicID)
		if goal == nil || topic == nil {
			continue
		}
		if !task.Type.IsValid() {
			task.Type = domain.TaskTypeStudy
		}
		if task.EstimatedMinutes < minTaskMinutes {
			task.EstimatedMinutes = minTaskMinutes
		}
		if task.EstimatedMinutes > maxTaskMinutes {
			task.EstimatedMinutes = maxTaskMinutes
		}
		if task.Priority < 1 {
			task.Priority = 1
		}
		if task.Priority > 5 {
			task.Priority = 5
		}
		usable = append(usable, task)
	}
	return usable
}

// fallbackPlan builds the locally computed minimal plan: up to
// fallbackMaxTasks of the most urgent topics needing review, each as a
// fixed-duration review task.
func (s *plannerServiceImpl) fallbackPlan(state *domain.UserState) (string, []domain.PlannedTask) {
	now := s.now()
	due := s.rankTopicsNeedingReview(state, now)

	if len(due) > fallbackMaxTasks {
		due = due[:fallbackMaxTasks]
	}

	tasks := make([]domain.PlannedTask, 0, len(due))
	for _, entry := range due {
		priority := int(math.Round(float64(entry.goalUrgency) / 20))
		if priority < 1 {
			priority = 1
		}
		if priority > 5 {
			priority = 5
		}
		tasks = append(tasks, domain.PlannedTask{
			TopicID:          entry.topic.ID,
			GoalID:           entry.topic.GoalID,
			Type:             domain.TaskTypeReview,
			EstimatedMinutes: fallbackTaskMinutes,
			Priority:         priority,
			Reasoning:        "overdue for review",
		})
	}

	return "Scheduled the most overdue topics for review.", tasks
}

// GetDailyPlan implements PlannerService.GetDailyPlan.
func (s *plannerServiceImpl) GetDailyPlan(
	ctx context.Context,
	userKey, date string,
) (*domain.DailyPlan, error) {
	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("get_plan", "failed to load state", err)
	}

	plan := state.FindPlan(date)
	if plan == nil {
		return nil, NewPlannerError("get_plan", "no plan for date", store.ErrPlanNotFound)
	}

	return plan, nil
}

// ListDailyPlans implements PlannerService.ListDailyPlans.
func (s *plannerServiceImpl) ListDailyPlans(
	ctx context.Context,
	userKey string,
) ([]domain.DailyPlan, error) {
	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("list_plans", "failed to load state", err)
	}

	plans := make([]domain.DailyPlan, len(state.DailyPlans))
	copy(plans, state.DailyPlans)

	// Date keys are YYYY-MM-DD, so lexicographic order is chronological.
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Date > plans[j].Date
	})

	return plans, nil
}

// DeleteDailyPlan implements PlannerService.DeleteDailyPlan.
// Deleting a date with no stored plan succeeds without touching the state.
func (s *plannerServiceImpl) DeleteDailyPlan(
	ctx context.Context,
	userKey, date string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(userKey)
	defer unlock()

	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return NewPlannerError("delete_plan", "failed to load state", err)
	}

	if state.FindPlan(date) == nil {
		log.Debug("delete of absent plan is a no-op",
			slog.String("user_key", userKey),
			slog.String("date", date))
		return nil
	}

	plans := state.DailyPlans[:0]
	for _, p := range state.DailyPlans {
		if p.Date != date {
			plans = append(plans, p)
		}
	}
	state.DailyPlans = plans

	if err := s.store.SaveState(ctx, state); err != nil {
		return NewPlannerError("delete_plan", "failed to persist state", err)
	}

	log.Info("daily plan deleted",
		slog.String("user_key", userKey),
		slog.String("date", date))
	return nil
}

