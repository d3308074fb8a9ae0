// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/classroom/internal/auth"
	"github.com/tomtom215/classroom/internal/backup"
	"github.com/tomtom215/classroom/internal/config"
	"github.com/tomtom215/classroom/internal/database"
	"github.com/tomtom215/classroom/internal/models"
)

const (
	testAdmin    = "admin"
	testPassword = "correct-horse-battery"
	testSecret   = "api-test-secret-with-at-least-32-chars!"
)

// fakeRestorer records its inputs and returns canned results.
type fakeRestorer struct {
	mu     sync.Mutex
	doc    *backup.Document
	opts   backup.Options
	actor  string
	result *backup.Result
	err    error
}

func (f *fakeRestorer) Restore(ctx context.Context, doc *backup.Document, opts backup.Options) (*backup.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc = doc
	f.opts = opts
	f.actor = backup.ActorFromContext(ctx)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &backup.Result{Success: true, Stats: backup.Stats{"users": 1}, Mode: backup.ModeFull}, nil
}

type fakeStore struct {
	runs    []database.RestoreRun
	counts  []database.TableCount
	err     error
	pingErr error
	limit   int
}

func (f *fakeStore) ListRestoreRuns(_ context.Context, limit int) ([]database.RestoreRun, error) {
	f.limit = limit
	return f.runs, f.err
}

func (f *fakeStore) TableCounts(context.Context) ([]database.TableCount, error) {
	return f.counts, f.err
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

var errStore = errors.New("store unavailable")

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Security: config.SecurityConfig{
			AuthMode:        config.AuthModeJWT,
			JWTSecret:       testSecret,
			SessionTimeout:  time.Hour,
			AdminUsername:   testAdmin,
			AdminPassword:   testPassword,
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"https://admin.example.com"},
		},
		Restore: config.RestoreConfig{
			MaxBodyBytes: 64 << 10,
			Timeout:      time.Minute,
		},
	}
}

type testEnv struct {
	cfg      *config.Config
	handler  *Handler
	restorer *fakeRestorer
	store    *fakeStore
	jwt      *auth.JWTManager
	lockout  *auth.LockoutManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()

	creds, err := auth.NewAdminCredentialsWithCost(testAdmin, testPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewAdminCredentialsWithCost: %v", err)
	}
	jm, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	lockout := auth.NewLockoutManager(auth.LockoutConfig{
		MaxAttempts:        3,
		LockoutDuration:    time.Minute,
		MaxLockoutDuration: time.Hour,
	})

	env := &testEnv{
		cfg:      cfg,
		restorer: &fakeRestorer{},
		store:    &fakeStore{},
		jwt:      jm,
		lockout:  lockout,
	}
	env.handler = NewHandler(cfg, env.restorer, env.store, creds, jm, lockout)
	return env
}

func (e *testEnv) router() *Router {
	return NewRouter(e.handler, auth.NewMiddleware(e.jwt, e.cfg.Security.AuthMode), e.cfg)
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	tok, _, err := e.jwt.GenerateToken(testAdmin, auth.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

// decodeResponse unmarshals the envelope, leaving Data as raw JSON.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) (models.APIResponse, json.RawMessage) {
	t.Helper()
	var envelope struct {
		models.APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return envelope.APIResponse, envelope.Data
}

const minimalBackupJSON = `{
	"metadata": {"version": "2.0", "exportedAt": "2024-03-01T09:30:00Z"},
	"data": {
		"users": [{"id": 1, "email": "a@x.com", "name": "Ada"}],
		"cohorts": [{"id": "7", "name": "2024"}]
	}
}`
