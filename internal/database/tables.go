// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/classroom/internal/metrics"
)

// TableCount is the row count of one restorable table.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// TableCounts returns row counts for RestorableTables in dependency order.
func (db *DB) TableCounts(ctx context.Context) (_ []TableCount, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("table_counts", time.Since(start), err) }()

	counts := make([]TableCount, 0, len(RestorableTables))
	for _, table := range RestorableTables {
		var n int64
		// table names come from RestorableTables, never from input
		if err = db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// CourseExists reports whether a live course with id exists.
func (db *DB) CourseExists(ctx context.Context, id string) (bool, error) {
	var found string
	err := db.conn.GetContext(ctx, &found, `SELECT id FROM courses WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up course %s: %w", id, err)
	}
	return true, nil
}
