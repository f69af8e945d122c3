// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-tally/models"
)

var ErrRunNotFound = errors.New("run not found")

// InsertRun stores a computed run. Runs are never updated afterwards.
func InsertRun(ctx context.Context, db *sql.DB, run models.Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO election_run (id, kind, label, inputs_hash, computed_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.Kind, run.Label, run.InputsHash, run.ComputedAt.UnixMilli(), string(run.Payload))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetRun loads a run with its payload
func GetRun(ctx context.Context, db *sql.DB, id string) (models.Run, error) {
	var run models.Run
	var computedAt int64
	var payload []byte

	err := db.QueryRowContext(ctx, `
		SELECT id, kind, label, inputs_hash, computed_at, payload
		FROM election_run
		WHERE id = $1
	`, id).Scan(&run.ID, &run.Kind, &run.Label, &run.InputsHash, &computedAt, &payload)

	if err == sql.ErrNoRows {
		return models.Run{}, ErrRunNotFound
	}
	if err != nil {
		return models.Run{}, fmt.Errorf("failed to query run: %w", err)
	}

	run.ComputedAt = time.UnixMilli(computedAt).UTC()
	run.Payload = payload
	return run, nil
}

// ListRuns returns run summaries, newest first. An empty kind lists all kinds.
func ListRuns(ctx context.Context, db *sql.DB, kind string, limit int) ([]models.RunSummary, error) {
	query := `
		SELECT id, kind, label, inputs_hash, computed_at
		FROM election_run
	`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += fmt.Sprintf(` ORDER BY computed_at DESC, id ASC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []models.RunSummary{}
	for rows.Next() {
		var s models.RunSummary
		var computedAt int64
		if err := rows.Scan(&s.ID, &s.Kind, &s.Label, &s.InputsHash, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.ComputedAt = time.UnixMilli(computedAt).UTC()
		runs = append(runs, s)
	}

	return runs, rows.Err()
}

// DeleteRun removes a run, returning ErrRunNotFound if it does not exist
func DeleteRun(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM election_run WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted runs: %w", err)
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// DeleteRunsBefore removes every run computed before cutoff and returns
// the IDs it removed
func DeleteRunsBefore(ctx context.Context, db *sql.DB, cutoff time.Time) ([]string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM election_run WHERE computed_at < $1 ORDER BY id
	`, cutoff.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query expired runs: %w", err)
	}

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expired run: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expired runs: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM election_run WHERE computed_at < $1`, cutoff.UnixMilli()); err != nil {
		return nil, fmt.Errorf("failed to delete expired runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purge: %w", err)
	}

	return ids, nil
}
