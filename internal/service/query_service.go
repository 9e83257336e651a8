package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/store"
)

// planEntry pairs a due topic with the context needed to rank it for the
// review queue. The combined urgency stays internal; callers get the sorted
// order without the score.
type planEntry struct {
	topic       domain.Topic
	goalTitle   string
	goalUrgency int
	urgency     float64
}

// rankTopicsNeedingReview collects the due topics of active goals and sorts
// them by combined urgency, most urgent first. Decay dominates the ranking;
// the goal's deadline urgency only breaks ties among similarly decayed
// topics.
func (s *plannerServiceImpl) rankTopicsNeedingReview(state *domain.UserState, now time.Time) []planEntry {
	var entries []planEntry

	for i := range state.Goals {
		goal := &state.Goals[i]
		if goal.Status != domain.GoalStatusActive {
			continue
		}

		goalUrgency := s.sched.UrgencyScore(goal, now)

		for j := range goal.Topics {
			topic := &goal.Topics[j]
			if !s.sched.IsTopicDue(topic, now) {
				continue
			}

			level := s.sched.DecayLevel(topic, now)
			entries = append(entries, planEntry{
				topic:       *topic,
				goalTitle:   goal.Title,
				goalUrgency: goalUrgency,
				urgency:     s.sched.TopicUrgency(level, goalUrgency),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].urgency > entries[j].urgency
	})

	return entries
}

// GetTopicsNeedingReview implements PlannerService.GetTopicsNeedingReview.
// Read-only: the stored state is never mutated.
func (s *plannerServiceImpl) GetTopicsNeedingReview(
	ctx context.Context,
	userKey string,
) ([]ReviewTopic, error) {
	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("topics_needing_review", "failed to load state", err)
	}

	entries := s.rankTopicsNeedingReview(state, s.now())

	topics := make([]ReviewTopic, 0, len(entries))
	for _, entry := range entries {
		topics = append(topics, ReviewTopic{
			Topic:     entry.topic,
			GoalTitle: entry.goalTitle,
		})
	}

	return topics, nil
}

// GetGoalsWithDecay implements PlannerService.GetGoalsWithDecay.
// Unlike the review queue, this projection covers goals of every status.
func (s *plannerServiceImpl) GetGoalsWithDecay(
	ctx context.Context,
	userKey string,
) ([]GoalWithDecay, error) {
	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("goals_with_decay", "failed to load state", err)
	}

	now := s.now()
	goals := make([]GoalWithDecay, 0, len(state.Goals))
	for i := range state.Goals {
		goals = append(goals, s.goalWithDecay(&state.Goals[i], now))
	}

	return goals, nil
}

// GetGoal implements PlannerService.GetGoal.
func (s *plannerServiceImpl) GetGoal(
	ctx context.Context,
	userKey string,
	goalID uuid.UUID,
) (*GoalWithDecay, error) {
	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("get_goal", "failed to load state", err)
	}

	goal := state.FindGoal(goalID)
	if goal == nil {
		return nil, NewPlannerError("get_goal", "goal not found", store.ErrGoalNotFound)
	}

	view := s.goalWithDecay(goal, s.now())
	return &view, nil
}

// GetState implements PlannerService.GetState.
func (s *plannerServiceImpl) GetState(
	ctx context.Context,
	userKey string,
) (*domain.UserState, error) {
	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("get_state", "failed to load state", err)
	}
	return state, nil
}

// goalWithDecay builds the read-only decay projection for one goal.
func (s *plannerServiceImpl) goalWithDecay(goal *domain.Goal, now time.Time) GoalWithDecay {
	topics := make([]TopicWithDecay, 0, len(goal.Topics))
	for i := range goal.Topics {
		topics = append(topics, TopicWithDecay{
			Topic:      goal.Topics[i],
			DecayLevel: s.sched.DecayLevel(&goal.Topics[i], now),
		})
	}

	return GoalWithDecay{
		ID:        goal.ID,
		Title:     goal.Title,
		Type:      goal.Type,
		Deadline:  goal.Deadline,
		Priority:  goal.Priority,
		Status:    goal.Status,
		CreatedAt: goal.CreatedAt,
		Topics:    topics,
	}
}
