package reward_test

import (
	"errors"
	"math"
	"testing"

	"github.com/walkpal/walkpal/internal/app/reward"
	"github.com/walkpal/walkpal/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Tier boundaries
// ═══════════════════════════════════════════════════════════════════════════

func TestTierFor_Boundaries(t *testing.T) {
	calc := reward.DefaultCalculator()
	tests := []struct {
		percent float64
		kind    domain.TierKind
		credit  int64
		price   int64
	}{
		{0, domain.TierPenalty, 0, 4700},
		{79.999, domain.TierPenalty, 0, 4700},
		{80, domain.TierDiscount, 2400, 2300},
		{87.5, domain.TierDiscount, 2400, 2300},
		{94.999, domain.TierDiscount, 2400, 2300},
		{95, domain.TierFree, 4900, 0},
		{100, domain.TierFree, 4900, 0},
		{250, domain.TierFree, 4900, 0},
	}
	for _, tt := range tests {
		got := calc.TierFor(tt.percent)
		if got.Kind != tt.kind || got.Credit != tt.credit || got.Price != tt.price {
			t.Errorf("TierFor(%v) = %+v, want {%s %d %d}", tt.percent, got, tt.kind, tt.credit, tt.price)
		}
	}
}

func TestTierFor_NaNIsPenalty(t *testing.T) {
	calc := reward.DefaultCalculator()
	if got := calc.Kind(math.NaN()); got != domain.TierPenalty {
		t.Errorf("Kind(NaN) = %s, want PENALTY", got)
	}
}

func TestEffectivePrice_NeverNegative(t *testing.T) {
	calc := reward.DefaultCalculator()
	calc.MonthlyPrice = 1000
	if got := calc.EffectivePrice(99); got != 0 {
		t.Errorf("EffectivePrice() = %d, want 0", got)
	}
	if got := calc.EffectivePrice(85); got != 0 {
		t.Errorf("EffectivePrice(85) = %d, want 0", got)
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	calc := reward.DefaultCalculator()
	rank := map[domain.TierKind]int{domain.TierPenalty: 0, domain.TierDiscount: 1, domain.TierFree: 2}
	prev := -1
	for p := 0.0; p <= 120; p += 0.5 {
		r := rank[calc.Kind(p)]
		if r < prev {
			t.Fatalf("tier dropped at %.1f%%", p)
		}
		prev = r
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Validation
// ═══════════════════════════════════════════════════════════════════════════

func TestCalculator_Validate(t *testing.T) {
	if err := reward.DefaultCalculator().Validate(); err != nil {
		t.Fatalf("default calculator invalid: %v", err)
	}

	bad := []reward.Calculator{
		{MonthlyPrice: -1, FreeThreshold: 95, DiscountThreshold: 80},
		{MonthlyPrice: 4700, FreeThreshold: 80, DiscountThreshold: 95},
		{MonthlyPrice: 4700, FreeThreshold: math.NaN(), DiscountThreshold: 80},
	}
	for i, c := range bad {
		if err := c.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("case %d: Validate() = %v, want ErrInvalidInput", i, err)
		}
	}
}

func TestValidatePercent(t *testing.T) {
	for _, p := range []float64{0, 79.9, 100, 250} {
		if err := reward.ValidatePercent(p); err != nil {
			t.Errorf("ValidatePercent(%v) = %v", p, err)
		}
	}
	for _, p := range []float64{-0.1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := reward.ValidatePercent(p); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("ValidatePercent(%v) = %v, want ErrInvalidInput", p, err)
		}
	}
}

func TestAchievementPercent(t *testing.T) {
	tests := []struct {
		steps, goal int64
		want        float64
	}{
		{5000, 10000, 50},
		{10000, 10000, 100},
		{12000, 10000, 120},
		{500, 0, 0},
		{-5, 100, 0},
	}
	for _, tt := range tests {
		if got := reward.AchievementPercent(tt.steps, tt.goal); got != tt.want {
			t.Errorf("AchievementPercent(%d, %d) = %v, want %v", tt.steps, tt.goal, got, tt.want)
		}
	}
}
