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
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/tomtom215/classroom/internal/logging"
	"github.com/tomtom215/classroom/internal/metrics"
)

// Store is the transactional store a restore runs against. *sqlx.DB
// implements it.
type Store interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	sqlx.QueryerContext
}

// Engine restores backup documents. It holds no per-restore state and is
// safe for concurrent use, although concurrent restores are only isolated
// by the store's transactions.
type Engine struct {
	store   Store
	history HistoryRecorder
	now     func() time.Time
	newID   func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHistory records every restore attempt through h.
func WithHistory(h HistoryRecorder) EngineOption {
	return func(e *Engine) { e.history = h }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the UUID generator used for live primary keys
// and run ids.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an engine over store.
func NewEngine(store Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) logger(ctx context.Context) *zerolog.Logger {
	l := logging.CtxWith(ctx).Str("component", "backup").Logger()
	return &l
}

// Restore validates doc and opts and restores doc in one transaction.
//
// Format and validation problems are returned before the store is written
// (IsRejection reports true for them). Any other error means the transaction
// was rolled back; a *StepError in the chain names the entity type that was
// being restored.
func (e *Engine) Restore(ctx context.Context, doc *Document, opts Options) (*Result, error) {
	metrics.TrackRestore(true)
	defer metrics.TrackRestore(false)

	started := e.now()
	res := &Result{RunID: e.newID(), DryRun: opts.DryRun}
	log := e.logger(ctx).With().Str("run_id", res.RunID).Logger()

	err := e.execute(ctx, &log, res, doc, opts, started)

	finished := e.now()
	res.Duration = finished.Sub(started)
	status := runStatus(opts, err)
	metrics.RecordRestore(string(res.Mode), status, res.Duration)
	e.recordHistory(ctx, newRestoreRun(ctx, res, doc, opts, started, finished, err))

	if err != nil {
		var stepErr *StepError
		switch {
		case IsRejection(err):
			log.Warn().Err(err).Msg("Restore rejected")
		case errors.As(err, &stepErr):
			metrics.RecordRestoreFailure(string(stepErr.Entity))
			log.Error().Err(err).Str("entity", string(stepErr.Entity)).Msg("Restore rolled back")
		default:
			log.Error().Err(err).Msg("Restore rolled back")
		}
		return nil, err
	}

	for entity, c := range res.Details {
		metrics.RecordRestoreRows(string(entity), c.Created, c.Matched, c.Skipped, c.Dropped)
	}
	res.Success = true
	log.Info().
		Str("mode", string(res.Mode)).
		Str("encoding", string(res.Encoding)).
		Bool("dry_run", opts.DryRun).
		Int("created", res.Stats.Total()).
		Dur("duration", res.Duration).
		Msg("Restore completed")
	return res, nil
}

func (e *Engine) execute(ctx context.Context, log *zerolog.Logger, res *Result, doc *Document, opts Options, started time.Time) (err error) {
	if err := validateDocument(doc); err != nil {
		return err
	}
	res.RestoredFrom = doc.Metadata
	res.Encoding = doc.Data.Encoding()

	mode, warnings, err := resolveMode(doc.Data, opts)
	if err != nil {
		return err
	}
	res.Mode = mode
	res.Warnings = warnings
	for _, w := range warnings {
		log.Warn().Msg(w)
	}

	if opts.RestoreToCourseID != "" {
		if err := e.checkTargetCourse(ctx, opts.RestoreToCourseID); err != nil {
			return err
		}
	}

	plan := buildPlan(res.Encoding, mode, opts)
	if err := checkOrder(plan); err != nil {
		return fmt.Errorf("invalid restore plan: %w", err)
	}

	var sc *scope
	if mode == ModeScoped {
		sc = buildScope(doc.Data, opts.SourceCourseID)
	}

	tx, err := e.store.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	done := false
	defer func() {
		if done {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().
				Err(rbErr).
				AnErr("original_error", err).
				Msg("Transaction rollback failed")
		}
	}()

	if opts.ClearExisting && mode == ModeFull {
		deleted, err := clearTables(ctx, tx)
		if err != nil {
			return err
		}
		log.Info().Int64("rows", deleted).Msg("Cleared existing data")
	}

	r := &run{
		tx:     tx,
		remap:  NewRemapContext(),
		scope:  sc,
		mode:   mode,
		opts:   opts,
		now:    started,
		newID:  e.newID,
		counts: make(map[EntityType]*StepCounts),
		log:    *log,
	}
	for _, s := range plan {
		if err := s.fn(ctx, r, doc.Data); err != nil {
			var stepErr *StepError
			if !errors.As(err, &stepErr) {
				stepErr = &StepError{Entity: stepEntity(s), Err: err}
			}
			return stepErr
		}
		for _, entity := range s.produces {
			if c, ok := r.counts[entity]; ok {
				log.Debug().
					Str("step", s.name).
					Str("entity", string(entity)).
					Int("created", c.Created).
					Int("matched", c.Matched).
					Int("skipped", c.Skipped).
					Int("dropped", c.Dropped).
					Msg("Restore step finished")
			}
		}
	}

	res.Details = r.counts
	res.Stats = make(Stats, len(r.counts))
	for entity, c := range r.counts {
		res.Stats[string(entity)] = c.Created
	}

	done = true
	if opts.DryRun {
		if err := tx.Rollback(); err != nil {
			return fmt.Errorf("failed to roll back dry run: %w", err)
		}
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit restore: %w", err)
	}
	return nil
}

// checkTargetCourse requires the destination course to exist in the store.
func (e *Engine) checkTargetCourse(ctx context.Context, courseID string) error {
	var n int
	if err := sqlx.GetContext(ctx, e.store, &n, `SELECT COUNT(*) FROM courses WHERE id = ?`, courseID); err != nil {
		return fmt.Errorf("failed to look up destination course: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownTargetCourse, courseID)
	}
	return nil
}
