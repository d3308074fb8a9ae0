// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/classroom/internal/database"
	"github.com/tomtom215/classroom/internal/models"
)

// restoreHistoryQuery bounds GET /admin/restores.
type restoreHistoryQuery struct {
	Limit int `json:"limit" validate:"gte=1,lte=500"`
}

// RestoreHistory handles GET /api/v1/admin/restores?limit=N.
func (h *Handler) RestoreHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := restoreHistoryQuery{Limit: getIntParam(r, "limit", 50)}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	runs, err := h.store.ListRestoreRuns(r.Context(), q.Limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeDatabase, "Failed to load restore history", err)
		return
	}

	views := make([]models.RestoreRunView, 0, len(runs))
	for i := range runs {
		views = append(views, restoreRunView(&runs[i]))
	}

	resp := models.Success(views, h.now())
	resp.Metadata.QueryTimeMS = time.Since(start).Milliseconds()
	respondJSON(w, r, http.StatusOK, resp)
}

func restoreRunView(run *database.RestoreRun) models.RestoreRunView {
	v := models.RestoreRunView{
		ID:            run.ID,
		StartedAt:     run.StartedAt,
		FinishedAt:    timePtr(run.FinishedAt),
		Actor:         run.Actor.String,
		BackupVersion: run.BackupVersion.String,
		ExportedAt:    timePtr(run.ExportedAt),
		Mode:          run.Mode.String,
		Encoding:      run.Encoding.String,
		DryRun:        run.DryRun,
		Options:       rawJSON(run.Options),
		Stats:         rawJSON(run.Stats),
		Status:        run.Status,
		FailedEntity:  run.FailedEntity.String,
		Error:         run.Error.String,
	}
	if v.FinishedAt != nil {
		v.DurationMS = v.FinishedAt.Sub(run.StartedAt).Milliseconds()
	}
	return v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

// rawJSON passes a stored JSON column through, dropping it if the store
// returned something that is not valid JSON.
func rawJSON(s sql.NullString) json.RawMessage {
	if !s.Valid || s.String == "" || !json.Valid([]byte(s.String)) {
		return nil
	}
	return json.RawMessage(s.String)
}

// Tables handles GET /api/v1/admin/tables.
func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	counts, err := h.store.TableCounts(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeDatabase, "Failed to count tables", err)
		return
	}

	out := models.TableCountsResponse{Tables: make([]models.TableCountView, 0, len(counts))}
	for _, c := range counts {
		out.Tables = append(out.Tables, models.TableCountView{Table: c.Table, Rows: c.Rows})
		out.TotalRows += c.Rows
	}

	resp := models.Success(out, h.now())
	resp.Metadata.QueryTimeMS = time.Since(start).Milliseconds()
	respondJSON(w, r, http.StatusOK, resp)
}
