// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/classroom/internal/database"
)

// HistoryRecorder stores one row per restore attempt. *database.DB
// implements it.
type HistoryRecorder interface {
	RecordRestoreRun(ctx context.Context, run *database.RestoreRun) error
}

type actorKey struct{}

// ContextWithActor attaches the identity of the caller requesting a restore.
func ContextWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the identity set by ContextWithActor.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok {
		return actor
	}
	return ""
}

const historyTimeout = 10 * time.Second

// newRestoreRun builds the history row for a finished attempt.
func newRestoreRun(ctx context.Context, res *Result, doc *Document, opts Options, started, finished time.Time, runErr error) *database.RestoreRun {
	run := &database.RestoreRun{
		ID:         res.RunID,
		StartedAt:  started.UTC(),
		FinishedAt: sql.NullTime{Time: finished.UTC(), Valid: true},
		Actor:      nullable(ActorFromContext(ctx)),
		Mode:       nullable(string(res.Mode)),
		Encoding:   nullable(string(res.Encoding)),
		DryRun:     opts.DryRun,
		Status:     runStatus(opts, runErr),
	}
	if doc != nil && doc.Metadata != nil {
		run.BackupVersion = nullable(doc.Metadata.Version)
		if doc.Metadata.ExportedAt != nil {
			run.ExportedAt = sql.NullTime{Time: doc.Metadata.ExportedAt.UTC(), Valid: true}
		}
	}
	if b, err := json.Marshal(opts); err == nil {
		run.Options = nullable(string(b))
	}
	if res.Stats != nil {
		if b, err := json.Marshal(res.Stats); err == nil {
			run.Stats = nullable(string(b))
		}
	}
	if runErr != nil {
		run.Error = nullable(runErr.Error())
		var stepErr *StepError
		if errors.As(runErr, &stepErr) {
			run.FailedEntity = nullable(string(stepErr.Entity))
		}
	}
	return run
}

func runStatus(opts Options, err error) string {
	switch {
	case err == nil && opts.DryRun:
		return database.RestoreStatusDryRun
	case err == nil:
		return database.RestoreStatusCommitted
	case IsRejection(err):
		return database.RestoreStatusRejected
	default:
		return database.RestoreStatusFailed
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// recordHistory writes run outside the restore transaction. The caller's
// context may already be cancelled; the write gets its own deadline and a
// failure is only logged.
func (e *Engine) recordHistory(ctx context.Context, run *database.RestoreRun) {
	if e.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyTimeout)
	defer cancel()

	if err := e.history.RecordRestoreRun(ctx, run); err != nil {
		e.logger(ctx).Warn().Err(err).Str("run_id", run.ID).Msg("Failed to record restore history")
	}
}
