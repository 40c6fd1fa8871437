package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (s *Store) CreateBlock(ctx context.Context, id, content string) (*Block, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blocks (id, content, created_at) VALUES (?, ?, ?)`,
		id, content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert block: %w", err)
	}
	return s.LookupBlock(ctx, id)
}

// LookupBlock returns the block with the given ID, or nil if it does not exist.
func (s *Store) LookupBlock(ctx context.Context, id string) (*Block, error) {
	b := &Block{}
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, created_at FROM blocks WHERE id = ?`, id,
	).Scan(&b.ID, &b.Content, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get block %q: %w", id, err)
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return b, nil
}

func (s *Store) ListBlocks(ctx context.Context) ([]Block, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, created_at FROM blocks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []Block
	for rows.Next() {
		var b Block
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Content, &createdAt); err != nil {
			return nil, err
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (s *Store) DeleteBlock(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	return err
}
