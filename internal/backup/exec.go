// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/tomtom215/classroom/internal/database"
)

// run is the state of one restore: the transaction, the remap tables and the
// counters. It lives for a single Engine.Restore call.
type run struct {
	tx     *sqlx.Tx
	remap  *RemapContext
	scope  *scope
	mode   Mode
	opts   Options
	now    time.Time
	newID  func() string
	counts map[EntityType]*StepCounts
	log    zerolog.Logger
}

// counter returns the counts for entity, creating them on first use. Only
// entity types that saw at least one record end up in the statistics.
func (r *run) counter(entity EntityType) *StepCounts {
	c, ok := r.counts[entity]
	if !ok {
		c = &StepCounts{}
		r.counts[entity] = c
	}
	return c
}

// ref resolves a backup-time foreign key.
func (r *run) ref(entity EntityType, backupID ID) (string, bool) {
	return r.remap.Lookup(entity, backupID)
}

// optionalRef resolves an optional foreign key to a live id or SQL NULL.
func (r *run) optionalRef(entity EntityType, backupID ID) any {
	if live, ok := r.remap.Lookup(entity, backupID); ok {
		return live
	}
	return nil
}

// drop counts a record that cannot be written and says why at debug level.
func (r *run) drop(entity EntityType, backupID ID, reason string) {
	r.counter(entity).Dropped++
	r.log.Debug().
		Str("entity", string(entity)).
		Str("backup_id", string(backupID)).
		Str("reason", reason).
		Msg("Record dropped")
}

// row is one INSERT. The id column is added by insert.
type row struct {
	table string
	cols  []string
	vals  []any
}

// key is a SELECT returning the live id of the row that owns a unique key.
type key struct {
	query string
	args  []any
}

// record describes how one backup record is written.
//
// natural is checked before inserting; conflict is checked after an insert
// hit a uniqueness conflict and defaults to natural. When both are nil a
// conflict is counted as skipped.
type record struct {
	entity   EntityType
	backupID ID
	row      row
	natural  *key
	conflict *key
	// matchOnly never inserts; an unmatched record is skipped.
	matchOnly bool
}

// restore performs the create-or-reuse decision for one record.
func (r *run) restore(ctx context.Context, rec record) error {
	c := r.counter(rec.entity)

	if rec.backupID != "" && r.remap.Has(rec.entity, rec.backupID) {
		// restored earlier in this run, e.g. through the nested tree
		return nil
	}

	if rec.natural != nil {
		live, found, err := r.lookup(ctx, rec.natural)
		if err != nil {
			return err
		}
		if found {
			r.remap.Set(rec.entity, rec.backupID, live)
			c.Matched++
			return nil
		}
	}

	if rec.matchOnly {
		c.Skipped++
		return nil
	}

	live, created, err := r.insert(ctx, rec.row)
	if err != nil {
		return err
	}
	if created {
		r.remap.Set(rec.entity, rec.backupID, live)
		c.Created++
		return nil
	}

	conflict := rec.conflict
	if conflict == nil {
		conflict = rec.natural
	}
	if conflict == nil {
		c.Skipped++
		return nil
	}
	live, found, err := r.lookup(ctx, conflict)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w in %s", ErrUnresolvedConflict, rec.row.table)
	}
	r.remap.Set(rec.entity, rec.backupID, live)
	c.Matched++
	return nil
}

// insert writes row with a fresh id. created is false when a uniqueness
// constraint already holds an equivalent row.
func (r *run) insert(ctx context.Context, rw row) (string, bool, error) {
	id := r.newID()
	query := fmt.Sprintf(
		"INSERT INTO %s (id, %s) VALUES (?%s) ON CONFLICT DO NOTHING RETURNING id",
		rw.table, strings.Join(rw.cols, ", "), strings.Repeat(", ?", len(rw.cols)))

	args := make([]any, 0, len(rw.vals)+1)
	args = append(args, id)
	args = append(args, rw.vals...)

	var live string
	err := r.tx.GetContext(ctx, &live, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case database.IsUniqueConstraintError(err):
		// the conflict was not covered by ON CONFLICT; SQLite leaves the
		// transaction usable, DuckDB fails the next statement
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("insert into %s: %w", rw.table, err)
	}
	return live, true, nil
}

func (r *run) lookup(ctx context.Context, k *key) (string, bool, error) {
	var live string
	err := r.tx.GetContext(ctx, &live, k.query, k.args...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup: %w", err)
	}
	return live, true, nil
}

// storeTime normalizes t to what a TIMESTAMP column holds, so values read
// back compare equal to values written.
func storeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// timeOr returns t for storage, or fallback when t is nil.
func timeOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil || t.IsZero() {
		return storeTime(fallback)
	}
	return storeTime(*t)
}

// nullTime returns t for storage or SQL NULL.
func nullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return storeTime(*t)
}

// nullString returns s or SQL NULL when empty.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
