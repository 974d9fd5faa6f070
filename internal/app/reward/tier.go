// Package reward turns a goal-achievement percentage into a subscription
// price tier and keeps a ledger of the tier applied to each billing cycle.
package reward

import (
	"fmt"
	"math"

	"github.com/walkpal/walkpal/internal/domain"
)

// Reference billing constants. The credit amounts are historical and
// independent of the current price; FREE credit exceeds the price.
const (
	DefaultMonthlyPrice      int64   = 4700
	DefaultFreeCredit        int64   = 4900
	DefaultDiscountCredit    int64   = 2400
	DefaultFreeThreshold     float64 = 95
	DefaultDiscountThreshold float64 = 80
)

// Calculator maps achievement percentages to reward tiers.
type Calculator struct {
	MonthlyPrice      int64
	FreeCredit        int64
	DiscountCredit    int64
	FreeThreshold     float64
	DiscountThreshold float64
}

// DefaultCalculator returns the calculator with the reference constants.
func DefaultCalculator() Calculator {
	return Calculator{
		MonthlyPrice:      DefaultMonthlyPrice,
		FreeCredit:        DefaultFreeCredit,
		DiscountCredit:    DefaultDiscountCredit,
		FreeThreshold:     DefaultFreeThreshold,
		DiscountThreshold: DefaultDiscountThreshold,
	}
}

// Validate checks that a configured calculator is usable.
func (c Calculator) Validate() error {
	if c.MonthlyPrice < 0 || c.FreeCredit < 0 || c.DiscountCredit < 0 {
		return fmt.Errorf("reward amounts must not be negative: %w", domain.ErrInvalidInput)
	}
	if math.IsNaN(c.FreeThreshold) || math.IsNaN(c.DiscountThreshold) {
		return fmt.Errorf("reward thresholds must be numbers: %w", domain.ErrInvalidInput)
	}
	if c.DiscountThreshold > c.FreeThreshold {
		return fmt.Errorf("discount threshold %.2f above free threshold %.2f: %w",
			c.DiscountThreshold, c.FreeThreshold, domain.ErrInvalidInput)
	}
	return nil
}

// Kind returns the tier kind for a percentage. Thresholds are evaluated
// FREE first, lower bounds inclusive. NaN falls through to PENALTY.
func (c Calculator) Kind(percent float64) domain.TierKind {
	switch {
	case percent >= c.FreeThreshold:
		return domain.TierFree
	case percent >= c.DiscountThreshold:
		return domain.TierDiscount
	default:
		return domain.TierPenalty
	}
}

// CreditFor returns the credit granted for a percentage.
func (c Calculator) CreditFor(percent float64) int64 {
	switch c.Kind(percent) {
	case domain.TierFree:
		return c.FreeCredit
	case domain.TierDiscount:
		return c.DiscountCredit
	default:
		return 0
	}
}

// EffectivePrice returns the renewal price after credit, clamped at zero.
func (c Calculator) EffectivePrice(percent float64) int64 {
	return max(0, c.MonthlyPrice-c.CreditFor(percent))
}

// TierFor returns the full reward tier for a percentage.
func (c Calculator) TierFor(percent float64) domain.RewardTier {
	return domain.RewardTier{
		Kind:   c.Kind(percent),
		Credit: c.CreditFor(percent),
		Price:  c.EffectivePrice(percent),
	}
}

// ValidatePercent rejects a percentage that cannot be quoted or recorded:
// negative, NaN or infinite.
func ValidatePercent(percent float64) error {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return fmt.Errorf("percent must be a finite number, got %v: %w", percent, domain.ErrInvalidInput)
	}
	if percent < 0 {
		return fmt.Errorf("percent must not be negative, got %.2f: %w", percent, domain.ErrInvalidInput)
	}
	return nil
}

// AchievementPercent returns steps/goal as a percentage (0–100+).
// A non-positive goal yields 0.
func AchievementPercent(steps, goal int64) float64 {
	if goal <= 0 || steps <= 0 {
		return 0
	}
	return float64(steps) / float64(goal) * 100.0
}
