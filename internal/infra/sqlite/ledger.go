package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/walkpal/walkpal/internal/domain"
)

// ─── Reward Ledger ──────────────────────────────────────────────────────────

type cycleRow struct {
	ID             string  `db:"id"`
	Cycle          string  `db:"cycle"`
	Percent        float64 `db:"percent"`
	Tier           string  `db:"tier"`
	Credit         int64   `db:"credit"`
	Price          int64   `db:"price"`
	EffectivePrice int64   `db:"effective_price"`
	CreatedAt      int64   `db:"created_at"`
}

func (r cycleRow) record() domain.CycleRecord {
	return domain.CycleRecord{
		ID:             r.ID,
		Cycle:          r.Cycle,
		Percent:        r.Percent,
		Tier:           domain.TierKind(r.Tier),
		Credit:         r.Credit,
		Price:          r.Price,
		EffectivePrice: r.EffectivePrice,
		CreatedAt:      time.Unix(r.CreatedAt, 0),
	}
}

// InsertCycle records a billing cycle.
// Returns false if the cycle was already recorded (idempotent).
func (d *DB) InsertCycle(rec domain.CycleRecord) (bool, error) {
	result, err := d.db.NamedExec(
		`INSERT OR IGNORE INTO reward_ledger
			(id, cycle, percent, tier, credit, price, effective_price, created_at)
		 VALUES
			(:id, :cycle, :percent, :tier, :credit, :price, :effective_price, :created_at)`,
		cycleRow{
			ID:             rec.ID,
			Cycle:          rec.Cycle,
			Percent:        rec.Percent,
			Tier:           string(rec.Tier),
			Credit:         rec.Credit,
			Price:          rec.Price,
			EffectivePrice: rec.EffectivePrice,
			CreatedAt:      rec.CreatedAt.Unix(),
		},
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly recorded
}

// GetCycle retrieves a ledger row by cycle. Returns nil if not recorded.
func (d *DB) GetCycle(cycle string) (*domain.CycleRecord, error) {
	var row cycleRow
	err := d.db.Get(&row,
		`SELECT id, cycle, percent, tier, credit, price, effective_price, created_at
		 FROM reward_ledger WHERE cycle = ?`, cycle,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}
	rec := row.record()
	return &rec, nil
}

// ListCycles returns the most recent ledger rows, newest cycle first.
func (d *DB) ListCycles(limit int) ([]domain.CycleRecord, error) {
	var rows []cycleRow
	err := d.db.Select(&rows,
		`SELECT id, cycle, percent, tier, credit, price, effective_price, created_at
		 FROM reward_ledger ORDER BY cycle DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CycleRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}
