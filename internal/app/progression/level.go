// Package progression implements the pet progression engine: experience and
// levels, growth stages, the companion state and its animation selector.
// Everything here is pure; persistence lives in the companion service.
package progression

import (
	"fmt"
	"math"

	"github.com/walkpal/walkpal/internal/domain"
)

// StepsPerExp is the conversion rate from steps to experience.
const StepsPerExp = 100

// MaxLevel is the highest level whose exp floor fits in an int64.
const MaxLevel = 429496729

// ExpFloor returns the cumulative exp required to reach a level.
// Quadratic curve: 50 * L * (L+1) for L >= 1, 0 for the EGG pseudo-level.
func ExpFloor(level int) int64 {
	if level <= 0 {
		return 0
	}
	l := int64(level)
	return 50 * l * (l + 1)
}

// LevelFromExp returns the level for a lifetime exp total.
// Starts from a square-root estimate and scans to the exact floor. Never
// returns 0: level 0 is only ever assigned explicitly when a pet is created.
func LevelFromExp(totalExp int64) int {
	if totalExp < 0 {
		totalExp = 0
	}
	level := min(max(int(math.Sqrt(float64(totalExp)/50)), 1), MaxLevel)
	for level > 1 && ExpFloor(level) > totalExp {
		level--
	}
	for level < MaxLevel && ExpFloor(level+1) <= totalExp {
		level++
	}
	return level
}

// StepsToExp converts steps to exp. Remainder steps are dropped.
func StepsToExp(steps int64) int64 {
	if steps <= 0 {
		return 0
	}
	return steps / StepsPerExp
}

// NewExperienceLevel builds a consistent ExperienceLevel for a total at
// (or above) the given minimum level.
func NewExperienceLevel(totalExp int64, minLevel int) domain.ExperienceLevel {
	level := LevelFromExp(totalExp)
	if level < minLevel {
		level = minLevel
	}
	current := totalExp - ExpFloor(level)
	if current < 0 {
		current = 0 // below the level 1 floor
	}
	return domain.ExperienceLevel{Level: level, CurrentExp: current, TotalExp: totalExp}
}

// AddExp adds exp to a level snapshot and returns the new snapshot.
// Level never decreases, so an EGG stays at level 0 until exp arrives.
func AddExp(lvl domain.ExperienceLevel, exp int64) (domain.ExperienceLevel, error) {
	if exp < 0 {
		return lvl, fmt.Errorf("exp must not be negative, got %d: %w", exp, domain.ErrInvalidInput)
	}
	if exp == 0 {
		return lvl, nil
	}
	if exp > math.MaxInt64-lvl.TotalExp {
		return lvl, fmt.Errorf("exp total overflows: %d + %d: %w", lvl.TotalExp, exp, domain.ErrInvalidInput)
	}
	return NewExperienceLevel(lvl.TotalExp+exp, lvl.Level), nil
}

// Progress returns the fraction of the way from the current level floor to
// the next one, clamped to [0, 1].
func Progress(lvl domain.ExperienceLevel) float64 {
	thisLevel := ExpFloor(lvl.Level)
	nextLevel := ExpFloor(lvl.Level + 1)
	span := nextLevel - thisLevel
	if span <= 0 {
		return 1
	}
	p := float64(lvl.TotalExp-thisLevel) / float64(span)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// ExpToNextLevel returns exp remaining until the next level floor.
func ExpToNextLevel(lvl domain.ExperienceLevel) int64 {
	remaining := ExpFloor(lvl.Level+1) - lvl.TotalExp
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// CheckLevelUp reports whether the level increased between two snapshots.
func CheckLevelUp(old, new domain.ExperienceLevel) bool {
	return new.Level > old.Level
}
