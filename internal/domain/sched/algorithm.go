package sched

import (
	"math"
	"time"
)

// reviewInterval returns the target number of days between reviews for a
// topic with the given review count. The lookup table is clamped to its last
// entry, so any review count past the table uses the cap.
func reviewInterval(reviewCount int, params *Params) int {
	if reviewCount < 0 {
		reviewCount = 0
	}
	if reviewCount >= len(params.ReviewIntervals) {
		return params.ReviewIntervals[len(params.ReviewIntervals)-1]
	}
	return params.ReviewIntervals[reviewCount]
}

// calculateDecayLevel classifies how overdue a topic is for review.
//
// A topic that has never been reviewed is maximally urgent and always red.
// Otherwise the elapsed whole days since the last review are compared against
// the topic's current spaced-repetition interval:
//
//	green  below GreenRatio x interval (comfortably fresh)
//	yellow below the full interval     (approaching due)
//	orange below OrangeRatio x interval (overdue)
//	red    beyond that                 (badly overdue)
func calculateDecayLevel(
	lastReviewed *time.Time,
	reviewCount int,
	now time.Time,
	params *Params,
) DecayLevel {
	if lastReviewed == nil {
		return DecayLevelRed
	}

	daysSince := math.Floor(now.Sub(*lastReviewed).Hours() / 24)
	interval := float64(reviewInterval(reviewCount, params))

	switch {
	case daysSince < interval*params.GreenRatio:
		return DecayLevelGreen
	case daysSince < interval:
		return DecayLevelYellow
	case daysSince < interval*params.OrangeRatio:
		return DecayLevelOrange
	default:
		return DecayLevelRed
	}
}

// isDueForReview reports whether a topic should be reviewed now: either it
// has never been reviewed, or its spaced-repetition interval has fully
// elapsed since the last review.
func isDueForReview(
	lastReviewed *time.Time,
	reviewCount int,
	now time.Time,
	params *Params,
) bool {
	if lastReviewed == nil {
		return true
	}

	due := lastReviewed.AddDate(0, 0, reviewInterval(reviewCount, params))
	return !now.Before(due)
}

// calculateUrgencyScore derives a 0-100 urgency from a goal's deadline
// proximity and stated priority.
//
// Priority contributes up to 50 points linearly. Deadline proximity
// contributes a stepped 10-50 points; a deadline already passed scores the
// same as one within a week.
func calculateUrgencyScore(deadline time.Time, priority int, now time.Time) int {
	priorityScore := float64(priority) / 5 * 50

	days := deadline.Sub(now).Hours() / 24

	var timeScore float64
	switch {
	case days < 0 || days <= 7:
		timeScore = 50
	case days <= 14:
		timeScore = 40
	case days <= 30:
		timeScore = 30
	case days <= 60:
		timeScore = 20
	default:
		timeScore = 10
	}

	score := int(math.Round(priorityScore + timeScore))
	if score > 100 {
		score = 100
	}
	return score
}

// combinedTopicUrgency ranks a topic for the review queue by combining its
// decay level with its goal's urgency score. Decay dominates the ranking;
// deadline pressure only breaks ties among similarly decayed topics.
func combinedTopicUrgency(level DecayLevel, goalUrgency int, params *Params) float64 {
	weight := params.DecayWeights[level]
	return float64(weight)*params.DecayWeightFactor + float64(goalUrgency)*params.GoalUrgencyFactor
}

// masteryIncrease computes how much a recorded study session raises a
// topic's mastery level.
//
// The base increase is keyed off the review count after incrementing: early
// reviews are worth the most, with the payoff tapering through fixed bands.
// Longer sessions earn a flat duration bonus, and the combined raw increase
// is scaled down as current mastery climbs (diminishing returns, truncated
// toward zero). A recorded session always yields at least +1.
func masteryIncrease(currentMastery, reviewCountAfter, durationMinutes int) int {
	var base int
	switch rc := reviewCountAfter; {
	case rc <= 1:
		base = 20
	case rc == 2:
		base = 18
	case rc <= 5:
		base = 12 + (5 - rc)
	case rc <= 10:
		base = 8 + int(float64(10-rc)*0.6)
	case rc <= 20:
		base = 5 + int(float64(20-rc)*0.2)
	default:
		remaining := 30 - rc
		if remaining < 0 {
			remaining = 0
		}
		base = 3 + int(float64(remaining)*0.2)
		if base < 3 {
			base = 3
		}
	}

	var bonus int
	switch {
	case durationMinutes >= 90:
		bonus = 8
	case durationMinutes >= 60:
		bonus = 5
	case durationMinutes >= 45:
		bonus = 3
	case durationMinutes >= 30:
		bonus = 1
	}

	raw := base + bonus

	var multiplier float64
	switch {
	case currentMastery >= 95:
		multiplier = 0.2
	case currentMastery >= 85:
		multiplier = 0.4
	case currentMastery >= 70:
		multiplier = 0.6
	case currentMastery >= 50:
		multiplier = 0.8
	default:
		multiplier = 1.0
	}

	increase := int(float64(raw) * multiplier)
	if increase < 1 {
		increase = 1
	}
	return increase
}

// nextMasteryLevel applies masteryIncrease to the current level, capped at 100.
func nextMasteryLevel(currentMastery, reviewCountAfter, durationMinutes int) int {
	next := currentMastery + masteryIncrease(currentMastery, reviewCountAfter, durationMinutes)
	if next > 100 {
		next = 100
	}
	return next
}
