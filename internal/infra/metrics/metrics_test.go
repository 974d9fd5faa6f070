package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestStepMetrics(t *testing.T) {
	StepsConverted.Add(10000)
	ExpAwarded.Add(100)

	names := gatheredNames(t)
	for _, name := range []string{"walkpal_steps_converted_total", "walkpal_exp_awarded_total"} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestProgressionMetrics(t *testing.T) {
	LevelUps.Inc()
	Evolutions.WithLabelValues("BABY").Inc()
	PetLevel.Set(4)
	PetHappiness.Set(60)

	names := gatheredNames(t)
	expected := []string{
		"walkpal_level_ups_total",
		"walkpal_evolutions_total",
		"walkpal_pet_level",
		"walkpal_pet_happiness",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestStreakAndRewardMetrics(t *testing.T) {
	StreakDays.Set(7)
	MilestonesFired.WithLabelValues("goal").Inc()
	CycleRollovers.WithLabelValues("success").Inc()
	RewardCycles.WithLabelValues("FREE").Inc()
	RewardCredit.Add(4900)
	Migrations.WithLabelValues("mapped").Inc()

	names := gatheredNames(t)
	expected := []string{
		"walkpal_streak_days",
		"walkpal_milestones_fired_total",
		"walkpal_cycle_rollovers_total",
		"walkpal_reward_cycles_total",
		"walkpal_reward_credit_total",
		"walkpal_legacy_migrations_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestHealthMetrics(t *testing.T) {
	HealthCheckStatus.WithLabelValues("sqlite").Set(1)
	HealthRecoveries.WithLabelValues("sqlite").Inc()
	HTTPRequestDuration.WithLabelValues("/api/pet", "GET", "200").Observe(0.002)

	names := gatheredNames(t)
	for _, name := range []string{
		"walkpal_health_check_status",
		"walkpal_health_recoveries_total",
		"walkpal_http_request_duration_seconds",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestAllMetricsGatherable(t *testing.T) {
	// Touch the vectors so they export at least one series.
	Evolutions.WithLabelValues("TEEN")
	MilestonesFired.WithLabelValues("streak")
	CycleRollovers.WithLabelValues("reset")
	RewardCycles.WithLabelValues("PENALTY")

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	count := 0
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "walkpal_") {
			count++
		}
	}
	if count < 10 {
		t.Errorf("expected at least 10 walkpal_ metrics, got %d", count)
	}
}
