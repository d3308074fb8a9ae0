// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/classroom/internal/api"
	"github.com/tomtom215/classroom/internal/auth"
	"github.com/tomtom215/classroom/internal/backup"
	"github.com/tomtom215/classroom/internal/config"
	"github.com/tomtom215/classroom/internal/database"
	"github.com/tomtom215/classroom/internal/logging"
	"github.com/tomtom215/classroom/internal/supervisor"
	"github.com/tomtom215/classroom/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", api.Version).
		Str("driver", cfg.Database.Driver).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Classroom restore server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	var engineOpts []backup.EngineOption
	if cfg.Restore.RecordHistory {
		engineOpts = append(engineOpts, backup.WithHistory(db))
	}
	engine := backup.NewEngine(db.Sqlx(), engineOpts...)

	jwtManager, credentials, err := setupAuth(cfg)
	if err != nil {
		return err
	}
	lockout := auth.NewLockoutManager(auth.DefaultLockoutConfig())

	handler := api.NewHandler(cfg, engine, db, credentials, jwtManager, lockout)
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager, cfg.Security.AuthMode), cfg)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}
	tree.AddMaintenanceService(lockout)
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 30*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree stopped: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}

// setupAuth builds the token manager and admin credentials. With
// AUTH_MODE=none the token secret is random per process and login only
// succeeds when admin credentials are configured.
func setupAuth(cfg *config.Config) (*auth.JWTManager, api.CredentialVerifier, error) {
	if cfg.Security.AuthMode == config.AuthModeNone {
		logging.Warn().Msg("Authentication is DISABLED (AUTH_MODE=none); every admin endpoint is public")
		if cfg.Security.JWTSecret == "" {
			secret, err := randomSecret()
			if err != nil {
				return nil, nil, err
			}
			cfg.Security.JWTSecret = secret
		}
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize JWT manager: %w", err)
	}

	if cfg.Security.AdminUsername == "" || cfg.Security.AdminPassword == "" {
		return jwtManager, rejectAll{}, nil
	}
	creds, err := auth.NewAdminCredentials(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return jwtManager, creds, nil
}

// rejectAll refuses every login.
type rejectAll struct{}

func (rejectAll) Verify(string, string) (string, error) {
	return "", auth.ErrInvalidCredentials
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// writeTimeout leaves room for the slowest restore to finish and respond.
func writeTimeout(cfg *config.Config) time.Duration {
	if t := cfg.Restore.Timeout + 30*time.Second; t > cfg.Server.Timeout {
		return t
	}
	return cfg.Server.Timeout
}
