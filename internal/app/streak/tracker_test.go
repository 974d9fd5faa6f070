package streak_test

import (
	"errors"
	"testing"

	"github.com/walkpal/walkpal/internal/app/streak"
	"github.com/walkpal/walkpal/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Rollover
// ═══════════════════════════════════════════════════════════════════════════

var (
	lenient = streak.PolicyLenient.Threshold(80)
	strict  = streak.PolicyStrict.Threshold(80)
)

func TestRollover_SuccessExtends(t *testing.T) {
	s := domain.StreakState{ConsecutiveDays: 2, LongestDays: 2}
	next, m, ok := streak.Rollover(s, 85, lenient, "2026-10-19")
	if next.ConsecutiveDays != 3 {
		t.Errorf("ConsecutiveDays = %d, want 3", next.ConsecutiveDays)
	}
	if next.LongestDays != 3 {
		t.Errorf("LongestDays = %d, want 3", next.LongestDays)
	}
	if !ok || m != 3 {
		t.Errorf("streak milestone = %d, %v, want 3, true", m, ok)
	}
	if next.CycleDate != "2026-10-19" {
		t.Errorf("CycleDate = %q", next.CycleDate)
	}
}

func TestRollover_FailureResetsSilently(t *testing.T) {
	s := domain.StreakState{ConsecutiveDays: 12, LongestDays: 15}
	next, _, ok := streak.Rollover(s, 79.9, lenient, "2026-10-19")
	if next.ConsecutiveDays != 0 {
		t.Errorf("ConsecutiveDays = %d, want 0", next.ConsecutiveDays)
	}
	if next.LongestDays != 15 {
		t.Errorf("LongestDays = %d, want 15", next.LongestDays)
	}
	if ok {
		t.Error("reset should not fire a streak milestone")
	}
}

func TestRollover_StrictPolicy(t *testing.T) {
	s := domain.StreakState{ConsecutiveDays: 5}
	next, _, _ := streak.Rollover(s, 99, strict, "2026-10-19")
	if next.ConsecutiveDays != 0 {
		t.Errorf("99%% under strict: ConsecutiveDays = %d, want 0", next.ConsecutiveDays)
	}
	next, _, _ = streak.Rollover(s, 100, strict, "2026-10-19")
	if next.ConsecutiveDays != 6 {
		t.Errorf("100%% under strict: ConsecutiveDays = %d, want 6", next.ConsecutiveDays)
	}
}

func TestRollover_ClearsShown(t *testing.T) {
	s := domain.StreakState{Shown: map[int]bool{10: true, 50: true}}
	next, _, _ := streak.Rollover(s, 100, lenient, "2026-10-19")
	if len(next.ShownList()) != 0 {
		t.Errorf("Shown = %v, want empty", next.ShownList())
	}
	if !s.HasShown(50) {
		t.Error("input state was modified")
	}
}

func TestRollover_StreakLadder(t *testing.T) {
	s := domain.StreakState{}
	var fired []int
	for day := 1; day <= 100; day++ {
		var m int
		var ok bool
		s, m, ok = streak.Rollover(s, 100, lenient, "")
		if ok {
			fired = append(fired, m)
		}
	}
	if len(fired) != len(streak.StreakMilestones) {
		t.Fatalf("fired %v, want %v", fired, streak.StreakMilestones)
	}
	for i, m := range streak.StreakMilestones {
		if fired[i] != m {
			t.Errorf("fired[%d] = %d, want %d", i, fired[i], m)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Goal milestones
// ═══════════════════════════════════════════════════════════════════════════

func TestCheckNewMilestone(t *testing.T) {
	s := domain.StreakState{}
	tests := []struct {
		percent float64
		want    int
		ok      bool
	}{
		{0, 0, false},
		{9.99, 0, false},
		{10, 10, true},
		{55, 50, true},
		{100, 100, true},
		{140, 100, true},
	}
	for _, tt := range tests {
		got, ok := streak.CheckNewMilestone(s, tt.percent)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CheckNewMilestone(%v) = %d, %v, want %d, %v", tt.percent, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMilestone_OneShotPerCycle(t *testing.T) {
	s := domain.StreakState{}
	m, ok := streak.CheckNewMilestone(s, 42)
	if !ok || m != 40 {
		t.Fatalf("first check = %d, %v", m, ok)
	}
	s = streak.MarkMilestoneShown(s, m)

	// Oscillating input does not re-fire 40.
	for _, p := range []float64{41, 38, 45, 49.9} {
		if got, ok := streak.CheckNewMilestone(s, p); ok && got == 40 {
			t.Errorf("40 re-fired at %v", p)
		}
	}

	m, ok = streak.CheckNewMilestone(s, 50)
	if !ok || m != 50 {
		t.Errorf("at 50 = %d, %v, want 50", m, ok)
	}
}

func TestMarkMilestoneShown_Idempotent(t *testing.T) {
	s := domain.StreakState{}
	a := streak.MarkMilestoneShown(s, 30)
	b := streak.MarkMilestoneShown(a, 30)
	if len(b.ShownList()) != 1 || b.ShownList()[0] != 30 {
		t.Errorf("ShownList = %v, want [30]", b.ShownList())
	}
	if s.HasShown(30) {
		t.Error("input state was modified")
	}
}

func TestStreakMilestoneFor(t *testing.T) {
	for _, d := range []int{0, 1, 2, 4, 8, 101} {
		if _, ok := streak.StreakMilestoneFor(d); ok {
			t.Errorf("StreakMilestoneFor(%d) should be false", d)
		}
	}
	if m, ok := streak.StreakMilestoneFor(21); !ok || m != 21 {
		t.Errorf("StreakMilestoneFor(21) = %d, %v", m, ok)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want streak.Policy
	}{
		{"", streak.PolicyLenient},
		{"lenient", streak.PolicyLenient},
		{" STRICT ", streak.PolicyStrict},
	}
	for _, tt := range tests {
		got, err := streak.ParsePolicy(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := streak.ParsePolicy("weekly"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("ParsePolicy(weekly) = %v, want ErrInvalidInput", err)
	}
	if lenient != 80 || strict != 100 {
		t.Error("unexpected policy thresholds")
	}
}

func TestPolicyThreshold_FollowsDiscountTier(t *testing.T) {
	if got := streak.PolicyLenient.Threshold(70); got != 70 {
		t.Errorf("lenient Threshold(70) = %v, want 70", got)
	}
	if got := streak.PolicyStrict.Threshold(70); got != 100 {
		t.Errorf("strict Threshold(70) = %v, want 100", got)
	}

	s := domain.StreakState{ConsecutiveDays: 1}
	next, _, _ := streak.Rollover(s, 72, streak.PolicyLenient.Threshold(70), "2026-10-19")
	if next.ConsecutiveDays != 2 {
		t.Errorf("72%% with a 70%% discount tier: ConsecutiveDays = %d, want 2", next.ConsecutiveDays)
	}
}
