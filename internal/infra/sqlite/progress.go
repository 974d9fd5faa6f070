package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
)

// ─── Progress Key-Value ─────────────────────────────────────────────────────

// SetProgress stores a progress key-value pair.
func (d *DB) SetProgress(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO progress (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetProgress retrieves a progress value by key.
// Returns "" if key not found.
func (d *DB) GetProgress(key string) (string, error) {
	var value string
	err := d.db.Get(&value, `SELECT value FROM progress WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetProgressMany writes several pairs in one transaction, so a crash can
// never leave half of a companion record behind.
func (d *DB) SetProgressMany(pairs map[string]string) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(
		`INSERT INTO progress (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// AllProgress loads every progress pair.
func (d *DB) AllProgress() (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := d.db.Select(&rows, `SELECT key, value FROM progress`); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}
