package progression

import "github.com/walkpal/walkpal/internal/domain"

// Stage level ranges. EGG=[0,0], BABY=[1,10], TEEN=[11,20], ADULT=[21,∞).
const (
	BabyMaxLevel = 10
	TeenMaxLevel = 20
)

// StageFromLevel maps a level onto its growth stage.
func StageFromLevel(level int) domain.GrowthStage {
	switch {
	case level <= 0:
		return domain.StageEgg
	case level <= BabyMaxLevel:
		return domain.StageBaby
	case level <= TeenMaxLevel:
		return domain.StageTeen
	default:
		return domain.StageAdult
	}
}

// CheckStageEvolution reports whether the growth stage changed between two
// snapshots. Evolution implies a level-up, never the other way round.
func CheckStageEvolution(old, new domain.ExperienceLevel) bool {
	return StageFromLevel(new.Level) != StageFromLevel(old.Level)
}
