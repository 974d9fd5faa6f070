package domain

import "sort"

// ─── Streak Types ───────────────────────────────────────────────────────────

// StreakState tracks consecutive success days plus the goal milestones
// already shown during the current cycle.
type StreakState struct {
	ConsecutiveDays int          `json:"consecutive_days"`
	LongestDays     int          `json:"longest_days"`
	CycleDate       string       `json:"cycle_date"` // "2006-01-02"; the day Shown belongs to
	Shown           map[int]bool `json:"-"`
}

// HasShown reports whether milestone m was already fired this cycle.
func (s StreakState) HasShown(m int) bool {
	return s.Shown[m]
}

// ShownList returns the shown milestones in ascending order.
func (s StreakState) ShownList() []int {
	out := make([]int, 0, len(s.Shown))
	for m, ok := range s.Shown {
		if ok {
			out = append(out, m)
		}
	}
	sort.Ints(out)
	return out
}

// Clone returns a copy whose Shown set is independent of s.
func (s StreakState) Clone() StreakState {
	c := s
	c.Shown = make(map[int]bool, len(s.Shown))
	for m, ok := range s.Shown {
		if ok {
			c.Shown[m] = true
		}
	}
	return c
}
