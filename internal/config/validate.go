// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/classroom/internal/logging"
)

const minJWTSecretLength = 32

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateRestore(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb", "sqlite3":
	default:
		return fmt.Errorf("DB_DRIVER must be duckdb or sqlite3, got %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "production", "test":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development, production or test, got %q", c.Server.Environment)
	}
}

// authModeValidators holds the per-mode checks.
var authModeValidators = map[string]func(*Config) error{
	AuthModeJWT:  validateJWTMode,
	AuthModeNone: validateNoneMode,
}

func (c *Config) validateSecurity() error {
	validate, ok := authModeValidators[c.Security.AuthMode]
	if !ok {
		return fmt.Errorf("AUTH_MODE must be jwt or none, got %q", c.Security.AuthMode)
	}
	if err := validate(c); err != nil {
		return err
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func validateJWTMode(c *Config) error {
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
	}
	if c.Security.AdminUsername == "" || c.Security.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required when AUTH_MODE=jwt")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

func validateNoneMode(c *Config) error {
	if c.IsProduction() {
		return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
	}
	return nil
}

func (c *Config) validateRestore() error {
	if c.Restore.MaxBodyBytes < 1<<10 {
		return fmt.Errorf("RESTORE_MAX_BODY_BYTES must be at least 1024")
	}
	if c.Restore.Timeout <= 0 {
		return fmt.Errorf("RESTORE_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a known level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
