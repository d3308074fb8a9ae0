// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/classroom/internal/database"
	"github.com/tomtom215/classroom/internal/models"
)

func TestRestoreHistory(t *testing.T) {
	env := newTestEnv(t)
	started := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	env.store.runs = []database.RestoreRun{
		{
			ID:         "run-2",
			StartedAt:  started,
			FinishedAt: sql.NullTime{Time: started.Add(1500 * time.Millisecond), Valid: true},
			Actor:      sql.NullString{String: "admin", Valid: true},
			Mode:       sql.NullString{String: "scoped", Valid: true},
			Stats:      sql.NullString{String: `{"lessons":1}`, Valid: true},
			Status:     database.RestoreStatusCommitted,
		},
		{
			ID:           "run-1",
			StartedAt:    started.Add(-time.Hour),
			Status:       database.RestoreStatusFailed,
			FailedEntity: sql.NullString{String: "grades", Valid: true},
			Stats:        sql.NullString{String: "not json", Valid: true},
		},
	}

	rec := httptest.NewRecorder()
	env.handler.RestoreHistory(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/restores?limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.store.limit != 5 {
		t.Errorf("limit = %d, want 5", env.store.limit)
	}

	_, data := decodeResponse(t, rec)
	var views []models.RestoreRunView
	if err := json.Unmarshal(data, &views); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d runs, want 2", len(views))
	}
	if views[0].DurationMS != 1500 || views[0].Actor != "admin" || string(views[0].Stats) != `{"lessons":1}` {
		t.Errorf("first run = %+v", views[0])
	}
	if views[1].FinishedAt != nil || views[1].Stats != nil || views[1].FailedEntity != "grades" {
		t.Errorf("second run = %+v", views[1])
	}
}

func TestRestoreHistory_InvalidLimit(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []string{"limit=0", "limit=501", "limit=-3"} {
		rec := httptest.NewRecorder()
		env.handler.RestoreHistory(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/restores?"+q, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestRestoreHistory_StoreError(t *testing.T) {
	env := newTestEnv(t)
	env.store.err = errStore

	rec := httptest.NewRecorder()
	env.handler.RestoreHistory(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/restores", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), errStore.Error()) {
		t.Error("store error leaked to client")
	}
}

func TestTables(t *testing.T) {
	env := newTestEnv(t)
	env.store.counts = []database.TableCount{
		{Table: "users", Rows: 3},
		{Table: "cohorts", Rows: 0},
		{Table: "grades", Rows: 12},
	}

	rec := httptest.NewRecorder()
	env.handler.Tables(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/tables", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	_, data := decodeResponse(t, rec)
	var out models.TableCountsResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.TotalRows != 15 || len(out.Tables) != 3 || out.Tables[2].Table != "grades" {
		t.Errorf("tables = %+v", out)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.handler.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.handler.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}

	env.store.pingErr = errStore
	rec = httptest.NewRecorder()
	env.handler.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status with failing store = %d, want 503", rec.Code)
	}
}
