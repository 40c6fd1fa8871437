package store

import (
	"context"
	"fmt"
	"time"
)

// AppendSession adds a record to the pomodoro log. Records are never updated.
func (s *Store) AppendSession(ctx context.Context, r SessionRecord) (*SessionRecord, error) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pomodoro_records (type, duration_minutes, actual_minutes, timestamp, event_id, event_title, is_long_break, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Type, r.DurationMinutes, r.ActualMinutes, r.Timestamp.UTC().Format(time.RFC3339),
		r.EventID, r.EventTitle, boolInt(r.IsLongBreak), boolInt(r.Completed),
	)
	if err != nil {
		return nil, fmt.Errorf("append session: %w", err)
	}
	r.ID, _ = res.LastInsertId()
	r.Timestamp = r.Timestamp.UTC().Truncate(time.Second)
	return &r, nil
}

// ListSessions returns records with from <= timestamp < to, oldest first.
// A zero bound is open.
func (s *Store) ListSessions(ctx context.Context, from, to time.Time) ([]SessionRecord, error) {
	query := `SELECT id, type, duration_minutes, actual_minutes, timestamp, event_id, event_title, is_long_break, completed
		FROM pomodoro_records WHERE 1=1`
	var args []any
	if !from.IsZero() {
		query += ` AND timestamp >= ?`
		args = append(args, from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		query += ` AND timestamp < ?`
		args = append(args, to.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY timestamp, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var ts string
		var longBreak, completed int
		if err := rows.Scan(&r.ID, &r.Type, &r.DurationMinutes, &r.ActualMinutes, &ts,
			&r.EventID, &r.EventTitle, &longBreak, &completed); err != nil {
			return nil, err
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		r.IsLongBreak = longBreak == 1
		r.Completed = completed == 1
		records = append(records, r)
	}
	return records, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
