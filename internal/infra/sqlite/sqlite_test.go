package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/walkpal/walkpal/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ─── Database Lifecycle ─────────────────────────────────────────────────────

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, "state.db")); os.IsNotExist(err) {
		t.Error("state.db should exist")
	}
}

func TestOpen_Ping(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := db.SetProgress("level", "4"); err != nil {
		t.Fatalf("SetProgress() error: %v", err)
	}
	db.Close()

	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer db2.Close()

	got, _ := db2.GetProgress("level")
	if got != "4" {
		t.Errorf("after reopen level = %q, want %q", got, "4")
	}
}

// ─── Progress KV ────────────────────────────────────────────────────────────

func TestProgress_GetMissing(t *testing.T) {
	db := newTestDB(t)
	got, err := db.GetProgress("nope")
	if err != nil {
		t.Fatalf("GetProgress() error: %v", err)
	}
	if got != "" {
		t.Errorf("missing key = %q, want empty", got)
	}
}

func TestProgress_Upsert(t *testing.T) {
	db := newTestDB(t)
	_ = db.SetProgress("happiness", "50")
	_ = db.SetProgress("happiness", "70")

	got, _ := db.GetProgress("happiness")
	if got != "70" {
		t.Errorf("happiness = %q, want %q", got, "70")
	}
}

func TestProgress_SetManyAndAll(t *testing.T) {
	db := newTestDB(t)
	pairs := map[string]string{
		"level":     "6",
		"total_exp": "2500",
		"name":      "Rex",
	}
	if err := db.SetProgressMany(pairs); err != nil {
		t.Fatalf("SetProgressMany() error: %v", err)
	}

	all, err := db.AllProgress()
	if err != nil {
		t.Fatalf("AllProgress() error: %v", err)
	}
	for k, v := range pairs {
		if all[k] != v {
			t.Errorf("%s = %q, want %q", k, all[k], v)
		}
	}
}

// ─── Reward Ledger ──────────────────────────────────────────────────────────

func TestInsertCycle_Idempotent(t *testing.T) {
	db := newTestDB(t)
	rec := domain.CycleRecord{
		ID:             "a",
		Cycle:          "2026-09",
		Percent:        96.5,
		Tier:           domain.TierFree,
		Credit:         4900,
		Price:          4700,
		EffectivePrice: 0,
		CreatedAt:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	ok, err := db.InsertCycle(rec)
	if err != nil || !ok {
		t.Fatalf("first InsertCycle() = %v, %v", ok, err)
	}

	rec.ID = "b"
	rec.Percent = 10
	ok, err = db.InsertCycle(rec)
	if err != nil {
		t.Fatalf("second InsertCycle() error: %v", err)
	}
	if ok {
		t.Error("second insert of same cycle should be ignored")
	}

	got, err := db.GetCycle("2026-09")
	if err != nil || got == nil {
		t.Fatalf("GetCycle() = %v, %v", got, err)
	}
	if got.ID != "a" || got.Percent != 96.5 || got.Credit != 4900 {
		t.Errorf("stored row overwritten: %+v", got)
	}
	if got.Tier != domain.TierFree {
		t.Errorf("Tier = %s, want FREE", got.Tier)
	}
}

func TestGetCycle_Missing(t *testing.T) {
	db := newTestDB(t)
	got, err := db.GetCycle("2020-01")
	if err != nil {
		t.Fatalf("GetCycle() error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestListCycles_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	for i, c := range []string{"2026-07", "2026-09", "2026-08"} {
		_, err := db.InsertCycle(domain.CycleRecord{
			ID:        c,
			Cycle:     c,
			Tier:      domain.TierPenalty,
			Price:     4700,
			CreatedAt: time.Unix(int64(i), 0),
		})
		if err != nil {
			t.Fatalf("InsertCycle(%s) error: %v", c, err)
		}
	}

	rows, err := db.ListCycles(2)
	if err != nil {
		t.Fatalf("ListCycles() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Cycle != "2026-09" || rows[1].Cycle != "2026-08" {
		t.Errorf("order = %s, %s", rows[0].Cycle, rows[1].Cycle)
	}
}
