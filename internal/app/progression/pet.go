package progression

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/walkpal/walkpal/internal/domain"
)

// NewProgressionState creates a freshly adopted companion: an EGG at level 0
// with neutral happiness.
func NewProgressionState(archetype domain.Archetype, name string, now time.Time) (domain.ProgressionState, error) {
	if !archetype.Valid() {
		return domain.ProgressionState{}, fmt.Errorf("unknown archetype %q: %w", archetype, domain.ErrInvalidInput)
	}
	clean, err := ValidateName(name)
	if err != nil {
		return domain.ProgressionState{}, err
	}
	return domain.ProgressionState{
		Archetype:       archetype,
		Name:            clean,
		Level:           domain.ExperienceLevel{},
		Happiness:       domain.InitialHappiness,
		LastInteraction: now,
	}, nil
}

// ValidateName trims a pet name and checks its length bound.
func ValidateName(name string) (string, error) {
	clean := strings.TrimSpace(name)
	n := utf8.RuneCountInString(clean)
	if n == 0 || n > domain.MaxNameRunes {
		return "", fmt.Errorf("name must be 1-%d characters, got %d: %w", domain.MaxNameRunes, n, domain.ErrInvalidInput)
	}
	return clean, nil
}

// ApplySteps converts a step count to exp and applies it.
// Happiness and name are left untouched.
func ApplySteps(state domain.ProgressionState, steps int64) (domain.ProgressionState, bool, bool, error) {
	if steps < 0 {
		return state, false, false, fmt.Errorf("steps must not be negative, got %d: %w", steps, domain.ErrInvalidInput)
	}
	return ApplyExp(state, StepsToExp(steps))
}

// ApplyExp applies an exp amount and reports (leveledUp, evolved).
func ApplyExp(state domain.ProgressionState, exp int64) (domain.ProgressionState, bool, bool, error) {
	next, err := AddExp(state.Level, exp)
	if err != nil {
		return state, false, false, err
	}
	leveledUp := CheckLevelUp(state.Level, next)
	evolved := CheckStageEvolution(state.Level, next)
	state.Level = next
	return state, leveledUp, evolved, nil
}

// Stage returns the growth stage of a companion.
func Stage(state domain.ProgressionState) domain.GrowthStage {
	return StageFromLevel(state.Level.Level)
}

// SizeFactor returns the stage's display multiplier.
func SizeFactor(state domain.ProgressionState) float64 {
	return Stage(state).SizeFactor()
}

// CurrentAnimation selects the display category for a companion.
func CurrentAnimation(state domain.ProgressionState, isWalking bool, progressPercent float64, isNightMode bool) domain.AnimationCategory {
	return SelectAnimation(Stage(state), isWalking, progressPercent, isNightMode)
}

// AdjustHappiness moves happiness by delta, clamped to [0, 100], and stamps
// the interaction time.
func AdjustHappiness(state domain.ProgressionState, delta int, now time.Time) domain.ProgressionState {
	state.Happiness = clampHappiness(state.Happiness + delta)
	state.LastInteraction = now
	return state
}

// Rename validates and applies a new name.
func Rename(state domain.ProgressionState, name string) (domain.ProgressionState, error) {
	clean, err := ValidateName(name)
	if err != nil {
		return state, err
	}
	state.Name = clean
	return state, nil
}

func clampHappiness(h int) int {
	return min(max(h, domain.MinHappiness), domain.MaxHappiness)
}
