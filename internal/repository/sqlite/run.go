package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/python-playground/internal/model"
	"github.com/sakif/python-playground/internal/repository"
)

var _ repository.RunRepository = (*DB)(nil)

// Record inserts a run. The ID is an xid: 20 URL-safe characters that sort
// by creation time.
func (db *DB) Record(ctx context.Context, run *model.Run) error {
	run.ID = xid.New().String()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO runs (id, client, status, exit_code, duration_ms, code_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Client,
		run.Status,
		run.ExitCode,
		run.DurationMS,
		run.CodeBytes,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: recording run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first. limit is clamped to
// [1, repository.MaxListLimit]; zero or negative means the default.
func (db *DB) ListRecent(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = repository.DefaultListLimit
	}
	if limit > repository.MaxListLimit {
		limit = repository.MaxListLimit
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, client, status, exit_code, duration_ms, code_bytes, created_at
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing runs: %w", err)
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.Client, &r.Status, &r.ExitCode, &r.DurationMS, &r.CodeBytes, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating runs: %w", err)
	}

	return runs, nil
}
