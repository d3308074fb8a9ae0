// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/classroom/internal/metrics"
)

// Restore run statuses.
const (
	RestoreStatusCommitted = "committed"
	RestoreStatusDryRun    = "dry_run"
	RestoreStatusRejected  = "rejected"
	RestoreStatusFailed    = "failed"
)

// RestoreRun is one row of restore history. Options and Stats hold JSON
// documents written by the restore engine.
type RestoreRun struct {
	ID            string         `db:"id"`
	StartedAt     time.Time      `db:"started_at"`
	FinishedAt    sql.NullTime   `db:"finished_at"`
	Actor         sql.NullString `db:"actor"`
	BackupVersion sql.NullString `db:"backup_version"`
	ExportedAt    sql.NullTime   `db:"exported_at"`
	Mode          sql.NullString `db:"mode"`
	Encoding      sql.NullString `db:"encoding"`
	DryRun        bool           `db:"dry_run"`
	Options       sql.NullString `db:"options"`
	Stats         sql.NullString `db:"stats"`
	Status        string         `db:"status"`
	FailedEntity  sql.NullString `db:"failed_entity"`
	Error         sql.NullString `db:"error"`
}

const insertRestoreRun = `
INSERT INTO restore_runs (
	id, started_at, finished_at, actor, backup_version, exported_at, mode, encoding,
	dry_run, options, stats, status, failed_entity, error
) VALUES (
	:id, :started_at, :finished_at, :actor, :backup_version, :exported_at, :mode, :encoding,
	:dry_run, :options, :stats, :status, :failed_entity, :error
)`

// RecordRestoreRun appends a history row. It runs outside any restore
// transaction so rejected and rolled-back runs are kept too.
func (db *DB) RecordRestoreRun(ctx context.Context, run *RestoreRun) error {
	start := time.Now()
	_, err := db.conn.NamedExecContext(ctx, insertRestoreRun, run)
	metrics.RecordDBQuery("record_restore_run", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to record restore run %s: %w", run.ID, err)
	}
	return nil
}

// ListRestoreRuns returns the most recent runs first.
func (db *DB) ListRestoreRuns(ctx context.Context, limit int) ([]RestoreRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var runs []RestoreRun
	start := time.Now()
	err := db.conn.SelectContext(ctx, &runs, `
		SELECT id, started_at, finished_at, actor, backup_version, exported_at, mode, encoding,
		       dry_run, options, stats, status, failed_entity, error
		FROM restore_runs
		ORDER BY started_at DESC, id
		LIMIT ?`, limit)
	metrics.RecordDBQuery("list_restore_runs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list restore runs: %w", err)
	}
	return runs, nil
}
