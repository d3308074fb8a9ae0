// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

// Package database owns the relational store: opening DuckDB or SQLite
// through sqlx, creating the schema, applying versioned migrations, and the
// small set of administrative queries (table counts, restore history).
//
// Restore logic lives in internal/backup and talks to the store through the
// *sqlx.DB returned by Sqlx.
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tomtom215/classroom/internal/config"
	"github.com/tomtom215/classroom/internal/logging"
)

// Supported drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite3"
)

//nolint:gochecknoinits // sqlx does not know duckdb's bind style
func init() {
	sqlx.BindDriver(DriverDuckDB, sqlx.QUESTION)
}

// DB wraps the sqlx connection pool.
type DB struct {
	conn *sqlx.DB
	cfg  *config.DatabaseConfig
}

// New opens the configured store and brings its schema up to date.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if !isMemoryPath(cfg.Path) {
		dir := filepath.Dir(cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := open(cfg)
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn, cfg: cfg}
	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Str("path", cfg.Path).
		Msg("Database ready")
	return db, nil
}

func open(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverDuckDB, "":
		threads := cfg.Threads
		if threads <= 0 {
			threads = runtime.NumCPU()
		}
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		dsn := fmt.Sprintf("%s?access_mode=read_write&threads=%d", path, threads)
		if cfg.MaxMemory != "" {
			dsn += "&max_memory=" + cfg.MaxMemory
		}
		conn, err := sqlx.Open(DriverDuckDB, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open duckdb: %w", err)
		}
		return conn, nil

	case DriverSQLite:
		dsn := cfg.Path
		if isMemoryPath(dsn) {
			dsn = ":memory:"
		}
		conn, err := sqlx.Open(DriverSQLite, dsn+"?_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// every pooled connection to :memory: would see its own empty database
		if isMemoryPath(cfg.Path) {
			conn.SetMaxOpenConns(1)
		}
		return conn, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func isMemoryPath(p string) bool {
	return p == "" || strings.EqualFold(p, ":memory:")
}

func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return err
	}
	return db.runVersionedMigrations()
}

// Sqlx exposes the pool to packages that run their own SQL, such as the
// restore engine.
func (db *DB) Sqlx() *sqlx.DB {
	return db.conn
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	if db.cfg == nil || db.cfg.Driver == "" {
		return DriverDuckDB
	}
	return db.cfg.Driver
}

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close checkpoints DuckDB files and closes the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.Driver() == DriverDuckDB && !isMemoryPath(db.cfg.Path) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}
