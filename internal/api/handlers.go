// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package api

import (
	"context"
	"time"

	"github.com/tomtom215/classroom/internal/auth"
	"github.com/tomtom215/classroom/internal/backup"
	"github.com/tomtom215/classroom/internal/config"
	"github.com/tomtom215/classroom/internal/database"
)

// Restorer runs a restore. *backup.Engine implements it.
type Restorer interface {
	Restore(ctx context.Context, doc *backup.Document, opts backup.Options) (*backup.Result, error)
}

// AdminStore is the read side of the store used by admin and health
// endpoints. *database.DB implements it.
type AdminStore interface {
	ListRestoreRuns(ctx context.Context, limit int) ([]database.RestoreRun, error)
	TableCounts(ctx context.Context) ([]database.TableCount, error)
	Ping(ctx context.Context) error
}

// CredentialVerifier checks a username and password and returns the role
// to issue. *auth.AdminCredentials implements it.
type CredentialVerifier interface {
	Verify(username, password string) (string, error)
}

// Handler holds the dependencies of every API endpoint.
type Handler struct {
	config      *config.Config
	restorer    Restorer
	store       AdminStore
	credentials CredentialVerifier
	jwtManager  *auth.JWTManager
	lockout     *auth.LockoutManager
	startTime   time.Time
	now         func() time.Time
}

// NewHandler creates a Handler. lockout may be nil to disable login lockout.
func NewHandler(
	cfg *config.Config,
	restorer Restorer,
	store AdminStore,
	credentials CredentialVerifier,
	jwtManager *auth.JWTManager,
	lockout *auth.LockoutManager,
) *Handler {
	return &Handler{
		config:      cfg,
		restorer:    restorer,
		store:       store,
		credentials: credentials,
		jwtManager:  jwtManager,
		lockout:     lockout,
		startTime:   time.Now(),
		now:         time.Now,
	}
}
