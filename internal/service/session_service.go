package service

import (
	"context"
	"log/slog"

	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// RecordSession implements PlannerService.RecordSession.
//
// Beyond appending the immutable session record, it updates the referenced
// topic in place: LastReviewed moves to the session date, ReviewCount
// increments by exactly one, and the mastery level advances under the
// diminishing-returns policy in the sched package. Finally, if a daily plan
// is stored for the session's calendar day, any planned task matching this
// topic and goal is retired from it; studying a planned item completes it.
func (s *plannerServiceImpl) RecordSession(
	ctx context.Context,
	userKey string,
	payload SessionPayload,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(userKey)
	defer unlock()

	state, err := s.store.GetState(ctx, userKey)
	if err != nil {
		return nil, NewPlannerError("record_session", "failed to load state", err)
	}

	goal := state.FindGoal(payload.GoalID)
	if goal == nil {
		return nil, NewPlannerError("record_session", "goal not found", store.ErrGoalNotFound)
	}
	topic := goal.FindTopic(payload.TopicID)
	if topic == nil {
		return nil, NewPlannerError("record_session", "topic not found", store.ErrTopicNotFound)
	}

	session, err := domain.NewStudySession(
		payload.TopicID,
		payload.GoalID,
		payload.Date,
		payload.DurationMinutes,
		payload.Notes,
	)
	if err != nil {
		log.Warn("session payload failed validation",
			slog.String("error", err.Error()),
			slog.String("topic_id", payload.TopicID.String()))
		return nil, NewPlannerError("record_session", "invalid session payload", err)
	}

	state.Sessions = append(state.Sessions, *session)

	// Update the topic's review history and mastery.
	sessionDate := session.Date
	topic.LastReviewed = &sessionDate
	topic.ReviewCount++
	topic.MasteryLevel = s.sched.NextMasteryLevel(
		topic.MasteryLevel,
		topic.ReviewCount,
		session.DurationMinutes,
	)

	// Retire the matching planned task, if the session's day has a plan.
	if plan := state.FindPlan(session.DateKey()); plan != nil {
		tasks := plan.Tasks[:0]
		for _, task := range plan.Tasks {
			if task.TopicID == session.TopicID && task.GoalID == session.GoalID {
				log.Debug("retired planned task after recorded session",
					slog.String("plan_date", plan.Date),
					slog.String("topic_id", task.TopicID.String()))
				continue
			}
			tasks = append(tasks, task)
		}
		plan.Tasks = tasks
	}

	if err := s.store.SaveState(ctx, state); err != nil {
		return nil, NewPlannerError("record_session", "failed to persist state", err)
	}

	log.Info("session recorded",
		slog.String("user_key", userKey),
		slog.String("session_id", session.ID.String()),
		slog.String("topic_id", topic.ID.String()),
		slog.Int("duration_minutes", session.DurationMinutes),
		slog.Int("mastery_level", topic.MasteryLevel))
	return session, nil
}
