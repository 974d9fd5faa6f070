package progression

import "github.com/walkpal/walkpal/internal/domain"

// Progress thresholds (percent of the daily goal) used by the selector.
const (
	CrackThreshold  = 90
	WobbleThreshold = 50
	RunThreshold    = 90
)

// SelectAnimation picks the display category for the given signals.
// It is a stateless selector: the same inputs always yield the same output.
func SelectAnimation(stage domain.GrowthStage, isWalking bool, progressPercent float64, isNightMode bool) domain.AnimationCategory {
	if stage == domain.StageEgg {
		switch {
		case progressPercent >= CrackThreshold:
			return domain.AnimCrack
		case progressPercent >= WobbleThreshold:
			return domain.AnimWobble
		default:
			return domain.AnimIdle
		}
	}

	switch {
	case isNightMode:
		return domain.AnimSneak
	case progressPercent >= RunThreshold:
		return domain.AnimRun
	case isWalking:
		return domain.AnimWalk
	default:
		return domain.AnimIdle
	}
}

// ReachableAnimations returns the categories a stage can ever display.
func ReachableAnimations(stage domain.GrowthStage) []domain.AnimationCategory {
	if stage == domain.StageEgg {
		return []domain.AnimationCategory{domain.AnimIdle, domain.AnimWobble, domain.AnimCrack}
	}
	return []domain.AnimationCategory{domain.AnimIdle, domain.AnimWalk, domain.AnimRun, domain.AnimSneak}
}
