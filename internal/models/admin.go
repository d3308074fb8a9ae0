// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// RestoreRunView is the API rendering of one restore history row.
// Options and Stats are passed through as stored JSON.
type RestoreRunView struct {
	ID            string          `json:"id"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    *time.Time      `json:"finished_at,omitempty"`
	DurationMS    int64           `json:"duration_ms,omitempty"`
	Actor         string          `json:"actor,omitempty"`
	BackupVersion string          `json:"backup_version,omitempty"`
	ExportedAt    *time.Time      `json:"exported_at,omitempty"`
	Mode          string          `json:"mode,omitempty"`
	Encoding      string          `json:"encoding,omitempty"`
	DryRun        bool            `json:"dry_run"`
	Options       json.RawMessage `json:"options,omitempty"`
	Stats         json.RawMessage `json:"stats,omitempty"`
	Status        string          `json:"status"`
	FailedEntity  string          `json:"failed_entity,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// TableCountsResponse lists row counts for every restorable table.
type TableCountsResponse struct {
	Tables    []TableCountView `json:"tables"`
	TotalRows int64            `json:"total_rows"`
}

// TableCountView is one restorable table and its row count.
type TableCountView struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResponse carries the issued token. The same token is also set as an
// HttpOnly cookie.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// HealthStatus is returned by the liveness and readiness probes.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Version  string `json:"version,omitempty"`
}
