package reward_test

import (
	"errors"
	"math"
	"testing"

	"github.com/walkpal/walkpal/internal/app/reward"
	"github.com/walkpal/walkpal/internal/domain"
	"github.com/walkpal/walkpal/internal/infra/sqlite"
)

func testLedger(t *testing.T) *reward.Ledger {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("sqlite.Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return reward.NewLedger(db, reward.DefaultCalculator())
}

func TestLedger_Record(t *testing.T) {
	l := testLedger(t)

	rec, err := l.Record("2026-09", 96)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if rec.Tier != domain.TierFree || rec.Credit != 4900 || rec.EffectivePrice != 0 {
		t.Errorf("Record() = %+v, want FREE/4900/0", rec)
	}
	if rec.Price != reward.DefaultMonthlyPrice {
		t.Errorf("Price = %d, want %d", rec.Price, reward.DefaultMonthlyPrice)
	}
	if rec.ID == "" {
		t.Error("ID should be set")
	}
}

func TestLedger_ReplayReturnsOriginal(t *testing.T) {
	l := testLedger(t)

	first, err := l.Record("2026-08", 82)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	again, err := l.Record("2026-08", 99)
	if !errors.Is(err, domain.ErrCycleRecorded) {
		t.Fatalf("replay error = %v, want ErrCycleRecorded", err)
	}
	if again.ID != first.ID || again.Tier != domain.TierDiscount {
		t.Errorf("replay returned %+v, want original %+v", again, first)
	}
}

func TestLedger_InvalidInput(t *testing.T) {
	l := testLedger(t)
	for _, c := range []string{"", "2026-13", "2026-1", "26-01", "2026/01"} {
		if _, err := l.Record(c, 90); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Record(%q) = %v, want ErrInvalidInput", c, err)
		}
	}
	if _, err := l.Record("2026-01", -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative percent = %v, want ErrInvalidInput", err)
	}
	for _, p := range []float64{math.NaN(), math.Inf(1)} {
		if _, err := l.Record("2026-01", p); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Record(%v) = %v, want ErrInvalidInput", p, err)
		}
	}
	if rows, _ := l.History(0); len(rows) != 0 {
		t.Errorf("rejected records were stored: %+v", rows)
	}
}

func TestLedger_History(t *testing.T) {
	l := testLedger(t)
	for _, c := range []string{"2026-05", "2026-06", "2026-07"} {
		if _, err := l.Record(c, 50); err != nil {
			t.Fatalf("Record(%s) error: %v", c, err)
		}
	}

	rows, err := l.History(0)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("History() len = %d, want 3", len(rows))
	}
	if rows[0].Cycle != "2026-07" {
		t.Errorf("newest = %s, want 2026-07", rows[0].Cycle)
	}
}
