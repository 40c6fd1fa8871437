package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ReadReminders returns the full reminder collection.
func (s *Store) ReadReminders(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM reminders`)
	if err != nil {
		return nil, fmt.Errorf("read reminders: %w", err)
	}
	defer rows.Close()

	snap := make(Snapshot)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		var r Reminder
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode reminder %q: %w", id, err)
		}
		if r.ID == "" {
			r.ID = id
		}
		snap[id] = r
	}
	return snap, rows.Err()
}

// WriteReminders replaces the stored collection with snap in a single
// transaction. Keys missing from snap are deleted.
func (s *Store) WriteReminders(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write reminders: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("clear reminders: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO reminders (id, data, updated_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert reminder: %w", err)
	}
	defer stmt.Close()

	for id, r := range snap {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode reminder %q: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, id, string(data), now); err != nil {
			return fmt.Errorf("insert reminder %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reminders: %w", err)
	}
	return nil
}
