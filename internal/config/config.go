// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

// Package config loads Classroom settings from defaults, an optional YAML
// file and environment variables, in that order of precedence (lowest first).
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Restore  RestoreConfig  `koanf:"restore"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig selects and tunes the relational store.
type DatabaseConfig struct {
	// Driver is "duckdb" or "sqlite3".
	Driver    string `koanf:"driver"`
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"` // duckdb only
	Threads   int    `koanf:"threads"`    // duckdb only, 0 = runtime.NumCPU()
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// SecurityConfig holds authentication and request-limiting settings.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// RestoreConfig bounds restore requests.
type RestoreConfig struct {
	// MaxBodyBytes caps the decoded request body of POST /admin/restore.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// Timeout bounds a single restore run, including the transaction.
	Timeout time.Duration `koanf:"timeout"`

	// RecordHistory writes a restore_runs row for every attempt.
	RecordHistory bool `koanf:"record_history"`
}

// LoggingConfig mirrors logging.Config for the file and environment layers.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Auth modes.
const (
	AuthModeJWT  = "jwt"
	AuthModeNone = "none"
)

// IsProduction reports whether the server runs with production safeguards.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load is the entry point used by the binaries.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
