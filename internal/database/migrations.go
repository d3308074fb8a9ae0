// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/classroom/internal/logging"
)

// Migration is one append-only schema change applied after the base tables.
type Migration struct {
	Version     int       `db:"version"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	SQL         string    `db:"-"`
	AppliedAt   time.Time `db:"applied_at"`
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL
)`

// migrations must stay append-only once a release ships.
var migrations = []Migration{
	{
		Version:     1,
		Name:        "restore_runs_started_at_index",
		Description: "Index restore history by start time for the admin listing",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_restore_runs_started_at ON restore_runs (started_at)`,
	},
	{
		Version:     2,
		Name:        "lessons_course_index",
		Description: "Index lessons by course for scoped restores",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_lessons_course_id ON lessons (course_id)`,
	},
	{
		Version:     3,
		Name:        "courses_title_index",
		Description: "Index course titles used to match nested backup bundles",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_courses_title ON courses (title)`,
	},
}

func (db *DB) appliedMigrations(ctx context.Context) (map[int]Migration, error) {
	var rows []Migration
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[int]Migration, len(rows))
	for _, m := range rows {
		applied[m.Version] = m
	}
	return applied, nil
}

// runVersionedMigrations applies migrations not yet recorded in schema_migrations.
func (db *DB) runVersionedMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, m := range migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		if _, err := db.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description, applied_at) VALUES (?, ?, ?, ?)`,
			m.Version, m.Name, m.Description, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}
		count++
	}

	if count > 0 {
		logging.Info().Int("applied", count).Msg("Applied database migrations")
	}
	return nil
}

// CurrentSchemaVersion returns the highest applied migration version.
func (db *DB) CurrentSchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := db.conn.GetContext(ctx, &version,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
