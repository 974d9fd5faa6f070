// Package metrics provides Prometheus metrics for WalkPal.
// Counters and gauges for step conversion, pet progression, streaks,
// reward cycles, HTTP traffic and health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Steps ──────────────────────────────────────────────────────────────────

// StepsConverted tracks steps turned into experience.
var StepsConverted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "steps_converted_total",
	Help:      "Total steps converted into experience.",
})

// ExpAwarded tracks experience points awarded.
var ExpAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "exp_awarded_total",
	Help:      "Total experience points awarded.",
})

// ─── Progression ────────────────────────────────────────────────────────────

// LevelUps tracks level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "level_ups_total",
	Help:      "Total pet level-ups.",
})

// Evolutions tracks growth stage transitions by the stage reached.
var Evolutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "evolutions_total",
	Help:      "Total growth stage evolutions by target stage.",
}, []string{"stage"})

// PetLevel tracks the companion's current level.
var PetLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "walkpal",
	Name:      "pet_level",
	Help:      "Current companion level.",
})

// PetHappiness tracks the companion's current happiness (0-100).
var PetHappiness = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "walkpal",
	Name:      "pet_happiness",
	Help:      "Current companion happiness (0-100).",
})

// ─── Streaks ────────────────────────────────────────────────────────────────

// StreakDays tracks the current consecutive success days.
var StreakDays = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "walkpal",
	Name:      "streak_days",
	Help:      "Current consecutive success days.",
})

// MilestonesFired tracks one-shot milestone events by kind ("goal", "streak").
var MilestonesFired = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "milestones_fired_total",
	Help:      "Total milestone events fired by kind.",
}, []string{"kind"})

// CycleRollovers tracks daily cycle rollovers by outcome ("success", "reset").
var CycleRollovers = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "cycle_rollovers_total",
	Help:      "Total daily cycle rollovers by outcome.",
}, []string{"outcome"})

// ─── Rewards ────────────────────────────────────────────────────────────────

// RewardCycles tracks recorded billing cycles by tier.
var RewardCycles = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "reward_cycles_total",
	Help:      "Total billing cycles recorded by tier.",
}, []string{"tier"})

// RewardCredit tracks total credit granted across cycles.
var RewardCredit = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "reward_credit_total",
	Help:      "Total credit granted against renewals.",
})

// ─── Migration ──────────────────────────────────────────────────────────────

// Migrations tracks legacy migrations by archetype resolution ("mapped", "fallback").
var Migrations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "legacy_migrations_total",
	Help:      "Total legacy pet migrations by archetype resolution.",
}, []string{"resolution"})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequestDuration tracks API request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "walkpal",
	Name:      "http_request_duration_seconds",
	Help:      "API request duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
}, []string{"route", "method", "status"})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "walkpal",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})

// HealthRecoveries tracks auto-recovery attempts.
var HealthRecoveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "walkpal",
	Name:      "health_recoveries_total",
	Help:      "Total auto-recovery attempts per check.",
}, []string{"check"})
