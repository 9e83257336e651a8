package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserState validation errors
var (
	// ErrUserKeyEmpty is returned when a user key is empty.
	ErrUserKeyEmpty = fmt.Errorf("%w: user key cannot be empty", ErrValidation)
)

// UserState is the root aggregate for one user key. It exclusively owns all
// goals, sessions, and daily plans reachable from it. All mutation is
// copy-on-write at the operation level: the whole state is loaded, mutated
// in memory, and persisted as a unit.
type UserState struct {
	UserID            string         `json:"user_id"`
	Goals             []Goal         `json:"goals"`
	Sessions          []StudySession `json:"sessions"`
	DailyPlans        []DailyPlan    `json:"daily_plans"`
	LastPlanGenerated *time.Time     `json:"last_plan_generated,omitempty"`
}

// NewUserState creates the empty state that is lazily synthesized on first
// access for a user key.
func NewUserState(userID string) *UserState {
	return &UserState{
		UserID:     userID,
		Goals:      []Goal{},
		Sessions:   []StudySession{},
		DailyPlans: []DailyPlan{},
	}
}

// FindGoal returns a pointer to the goal with the given ID, or nil if no
// such goal exists in this state.
func (s *UserState) FindGoal(goalID uuid.UUID) *Goal {
	for i := range s.Goals {
		if s.Goals[i].ID == goalID {
			return &s.Goals[i]
		}
	}
	return nil
}

// FindTopic resolves a (goalID, topicID) pair against this state. It returns
// the owning goal and the topic, or nils if either reference does not resolve.
func (s *UserState) FindTopic(goalID, topicID uuid.UUID) (*Goal, *Topic) {
	goal := s.FindGoal(goalID)
	if goal == nil {
		return nil, nil
	}
	topic := goal.FindTopic(topicID)
	if topic == nil {
		return goal, nil
	}
	return goal, topic
}

// FindPlan returns a pointer to the daily plan for the given date key, or
// nil if none is stored.
func (s *UserState) FindPlan(date string) *DailyPlan {
	for i := range s.DailyPlans {
		if s.DailyPlans[i].Date == date {
			return &s.DailyPlans[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the state. Operations mutate a clone and
// persist it, so a failed operation never leaves a partially mutated value
// visible to anyone holding the original.
func (s *UserState) Clone() *UserState {
	c := &UserState{
		UserID:     s.UserID,
		Goals:      make([]Goal, len(s.Goals)),
		Sessions:   make([]StudySession, len(s.Sessions)),
		DailyPlans: make([]DailyPlan, len(s.DailyPlans)),
	}

	for i := range s.Goals {
		g := s.Goals[i]
		g.Topics = make([]Topic, len(s.Goals[i].Topics))
		copy(g.Topics, s.Goals[i].Topics)
		for j := range g.Topics {
			if lr := g.Topics[j].LastReviewed; lr != nil {
				t := *lr
				g.Topics[j].LastReviewed = &t
			}
		}
		c.Goals[i] = g
	}

	copy(c.Sessions, s.Sessions)

	for i := range s.DailyPlans {
		p := s.DailyPlans[i]
		p.Tasks = make([]PlannedTask, len(s.DailyPlans[i].Tasks))
		copy(p.Tasks, s.DailyPlans[i].Tasks)
		c.DailyPlans[i] = p
	}

	if s.LastPlanGenerated != nil {
		t := *s.LastPlanGenerated
		c.LastPlanGenerated = &t
	}

	return c
}

// Validate checks if the UserState has valid data, recursing into all owned
// entities.
func (s *UserState) Validate() error {
	if s.UserID == "" {
		return ErrUserKeyEmpty
	}

	for i := range s.Goals {
		if err := s.Goals[i].Validate(); err != nil {
			return err
		}
		for j := range s.Goals[i].Topics {
			if err := s.Goals[i].Topics[j].Validate(); err != nil {
				return err
			}
		}
	}

	for i := range s.Sessions {
		if err := s.Sessions[i].Validate(); err != nil {
			return err
		}
	}

	for i := range s.DailyPlans {
		if err := s.DailyPlans[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}
