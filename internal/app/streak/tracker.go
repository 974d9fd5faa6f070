// Package streak tracks consecutive successful goal days and the one-shot
// milestone events fired as the day's achievement rises.
// Streaks break silently: a missed day resets the count with no warning event.
package streak

import (
	"fmt"
	"strings"

	"github.com/walkpal/walkpal/internal/domain"
)

// GoalMilestones is the intra-day percentage ladder.
var GoalMilestones = []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// StreakMilestones is the consecutive-day ladder.
var StreakMilestones = []int{3, 7, 14, 21, 30, 60, 90, 100}

// Policy decides which prior-day achievement counts as a success day.
type Policy string

const (
	// PolicyLenient counts any day reaching the DISCOUNT threshold.
	PolicyLenient Policy = "lenient"
	// PolicyStrict counts only days at or above 100%.
	PolicyStrict Policy = "strict"
)

// Threshold returns the minimum achievement percent for a success day,
// given the configured DISCOUNT tier threshold.
func (p Policy) Threshold(discount float64) float64 {
	if p == PolicyStrict {
		return 100
	}
	return discount
}

// ParsePolicy resolves a configured policy name. Empty means lenient.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLenient:
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown streak policy %q: %w", s, domain.ErrInvalidInput)
	}
}

// Rollover closes the prior cycle and opens newCycle ("YYYY-MM-DD").
// A prior day at or above threshold extends the streak, anything else
// resets it to zero.
// Milestone flags are cleared. When the new streak length lands on a
// ladder value, that milestone is returned.
func Rollover(state domain.StreakState, priorPercent, threshold float64, newCycle string) (domain.StreakState, int, bool) {
	next := domain.StreakState{
		ConsecutiveDays: 0,
		LongestDays:     state.LongestDays,
		CycleDate:       newCycle,
		Shown:           make(map[int]bool),
	}
	if priorPercent >= threshold {
		next.ConsecutiveDays = state.ConsecutiveDays + 1
	}
	if next.ConsecutiveDays > next.LongestDays {
		next.LongestDays = next.ConsecutiveDays
	}
	m, ok := StreakMilestoneFor(next.ConsecutiveDays)
	return next, m, ok
}

// CheckNewMilestone returns the highest goal milestone that is at or below
// percent and not yet shown this cycle. Input need not be monotonic.
func CheckNewMilestone(state domain.StreakState, percent float64) (int, bool) {
	for i := len(GoalMilestones) - 1; i >= 0; i-- {
		m := GoalMilestones[i]
		if float64(m) <= percent && !state.HasShown(m) {
			return m, true
		}
	}
	return 0, false
}

// MarkMilestoneShown flags m as shown for the current cycle. Idempotent;
// the input state is not modified.
func MarkMilestoneShown(state domain.StreakState, m int) domain.StreakState {
	next := state.Clone()
	next.Shown[m] = true
	return next
}

// StreakMilestoneFor reports whether days is exactly a streak ladder value.
func StreakMilestoneFor(days int) (int, bool) {
	for _, m := range StreakMilestones {
		if m == days {
			return m, true
		}
	}
	return 0, false
}
