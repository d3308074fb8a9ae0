// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/classroom/internal/database"
)

// clearTables empties every restorable table in reverse dependency order.
// It runs inside the restore transaction, so a failed restore keeps the data.
func clearTables(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	var deleted int64
	for i := len(database.RestorableTables) - 1; i >= 0; i-- {
		table := database.RestorableTables[i]
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table)
		if err != nil {
			return deleted, fmt.Errorf("failed to clear %s: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			deleted += n
		}
	}
	return deleted, nil
}
