package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency.

var (
	// Core errors. ErrInvalidInput is the only kind the engine itself raises:
	// negative steps or experience, out-of-range configuration, bad names.
	ErrInvalidInput = errors.New("invalid input")

	// Companion service errors
	ErrNoPet           = errors.New("no companion adopted yet")
	ErrPetExists       = errors.New("a companion already exists")
	ErrAlreadyMigrated = errors.New("legacy pet record already migrated")

	// Reward ledger errors
	ErrCycleRecorded = errors.New("billing cycle already recorded")
)
