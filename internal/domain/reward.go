package domain

import "time"

// ─── Reward Tier ────────────────────────────────────────────────────────────

// TierKind is the discrete billing outcome for a goal cycle.
type TierKind string

const (
	TierPenalty  TierKind = "PENALTY"
	TierDiscount TierKind = "DISCOUNT"
	TierFree     TierKind = "FREE"
)

// RewardTier is derived from an achievement percentage, never stored as-is.
type RewardTier struct {
	Kind   TierKind `json:"kind"`
	Credit int64    `json:"credit"` // Credit granted against the next renewal
	Price  int64    `json:"price"`  // Effective renewal price, never negative
}

// ─── Reward Ledger ──────────────────────────────────────────────────────────

// CycleRecord is one billing cycle's applied tier, as written to the ledger.
// Credit amounts are kept verbatim for reconciliation with billing records.
type CycleRecord struct {
	ID             string    `json:"id" db:"id"`
	Cycle          string    `json:"cycle" db:"cycle"` // e.g. "2026-10"
	Percent        float64   `json:"percent" db:"percent"`
	Tier           TierKind  `json:"tier" db:"tier"`
	Credit         int64     `json:"credit" db:"credit"`
	Price          int64     `json:"price" db:"price"`
	EffectivePrice int64     `json:"effective_price" db:"effective_price"`
	CreatedAt      time.Time `json:"created_at" db:"-"`
}
