// Package sched implements the pure scheduling computations that turn raw
// review history into prioritized recommendations: spaced-repetition
// intervals, memory-decay classification, urgency scoring, and the
// mastery-level update policy. All functions are deterministic given their
// inputs and the supplied "now"; nothing here touches stored state.
package sched

import (
	"time"

	"github.com/studyloop/studyloop-api/internal/domain"
)

// Service defines the interface for scheduling and decay operations.
type Service interface {
	// ReviewInterval returns the target days between reviews for a topic
	// with the given review count.
	ReviewInterval(reviewCount int) int

	// DecayLevel classifies how overdue the topic is for review as of now.
	DecayLevel(topic *domain.Topic, now time.Time) DecayLevel

	// IsTopicDue reports whether the topic should be reviewed as of now.
	IsTopicDue(topic *domain.Topic, now time.Time) bool

	// UrgencyScore derives the goal's 0-100 urgency as of now.
	UrgencyScore(goal *domain.Goal, now time.Time) int

	// TopicUrgency combines a topic's decay level with its goal's urgency
	// into the review-queue ranking score.
	TopicUrgency(level DecayLevel, goalUrgency int) float64

	// NextMasteryLevel computes the topic's mastery level after a recorded
	// session, given the review count after incrementing and the session
	// duration.
	NextMasteryLevel(currentMastery, reviewCountAfter, durationMinutes int) int
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// ReviewInterval implements the Service interface.
func (s *defaultService) ReviewInterval(reviewCount int) int {
	return reviewInterval(reviewCount, s.params)
}

// DecayLevel implements the Service interface.
func (s *defaultService) DecayLevel(topic *domain.Topic, now time.Time) DecayLevel {
	return calculateDecayLevel(topic.LastReviewed, topic.ReviewCount, now, s.params)
}

// IsTopicDue implements the Service interface.
func (s *defaultService) IsTopicDue(topic *domain.Topic, now time.Time) bool {
	return isDueForReview(topic.LastReviewed, topic.ReviewCount, now, s.params)
}

// UrgencyScore implements the Service interface.
func (s *defaultService) UrgencyScore(goal *domain.Goal, now time.Time) int {
	return calculateUrgencyScore(goal.Deadline, goal.Priority, now)
}

// TopicUrgency implements the Service interface.
func (s *defaultService) TopicUrgency(level DecayLevel, goalUrgency int) float64 {
	return combinedTopicUrgency(level, goalUrgency, s.params)
}

// NextMasteryLevel implements the Service interface.
func (s *defaultService) NextMasteryLevel(currentMastery, reviewCountAfter, durationMinutes int) int {
	return nextMasteryLevel(currentMastery, reviewCountAfter, durationMinutes)
}
