package reward

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/walkpal/walkpal/internal/domain"
	"github.com/walkpal/walkpal/internal/infra/metrics"
)

// CycleStore persists one ledger row per billing cycle.
type CycleStore interface {
	// InsertCycle returns false if the cycle was already recorded.
	InsertCycle(rec domain.CycleRecord) (bool, error)
	GetCycle(cycle string) (*domain.CycleRecord, error)
	ListCycles(limit int) ([]domain.CycleRecord, error)
}

var cyclePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Ledger records the tier applied to each billing cycle. Each cycle is
// recorded exactly once so a redelivered purchase event cannot double-credit.
type Ledger struct {
	store CycleStore
	calc  Calculator
	now   func() time.Time
}

// NewLedger creates a ledger over a store.
func NewLedger(store CycleStore, calc Calculator) *Ledger {
	return &Ledger{store: store, calc: calc, now: time.Now}
}

// Calculator returns the calculator the ledger prices cycles with.
func (l *Ledger) Calculator() Calculator { return l.calc }

// Record prices a completed cycle ("YYYY-MM") and appends it to the ledger.
// Returns domain.ErrCycleRecorded, along with the existing row, on replays.
func (l *Ledger) Record(cycle string, percent float64) (domain.CycleRecord, error) {
	if !cyclePattern.MatchString(cycle) {
		return domain.CycleRecord{}, fmt.Errorf("cycle %q must be YYYY-MM: %w", cycle, domain.ErrInvalidInput)
	}
	if err := ValidatePercent(percent); err != nil {
		return domain.CycleRecord{}, err
	}

	tier := l.calc.TierFor(percent)
	rec := domain.CycleRecord{
		ID:             uuid.NewString(),
		Cycle:          cycle,
		Percent:        percent,
		Tier:           tier.Kind,
		Credit:         tier.Credit,
		Price:          l.calc.MonthlyPrice,
		EffectivePrice: tier.Price,
		CreatedAt:      l.now(),
	}

	inserted, err := l.store.InsertCycle(rec)
	if err != nil {
		return domain.CycleRecord{}, fmt.Errorf("insert cycle %s: %w", cycle, err)
	}
	if !inserted {
		existing, err := l.store.GetCycle(cycle)
		if err != nil {
			return domain.CycleRecord{}, fmt.Errorf("get cycle %s: %w", cycle, err)
		}
		if existing == nil {
			return domain.CycleRecord{}, errors.New("cycle reported as recorded but not found")
		}
		return *existing, domain.ErrCycleRecorded
	}

	metrics.RewardCycles.WithLabelValues(string(rec.Tier)).Inc()
	metrics.RewardCredit.Add(float64(rec.Credit))
	log.WithFields(log.Fields{
		"cycle":   cycle,
		"percent": percent,
		"tier":    rec.Tier,
		"credit":  rec.Credit,
		"price":   rec.EffectivePrice,
	}).Info("reward cycle recorded")

	return rec, nil
}

// History returns the most recent ledger rows, newest first.
func (l *Ledger) History(limit int) ([]domain.CycleRecord, error) {
	if limit <= 0 {
		limit = 12
	}
	return l.store.ListCycles(limit)
}
