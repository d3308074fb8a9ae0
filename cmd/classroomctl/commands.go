// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/classroom/internal/config"
	"github.com/tomtom215/classroom/internal/logging"
)

type rootOptions struct {
	logLevel string
	db       config.DatabaseConfig
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{db: config.DefaultDatabaseConfig()}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		opts.db.Driver = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		opts.db.Path = v
	}

	cmd := &cobra.Command{
		Use:           "classroomctl",
		Short:         "Restore and inspect Classroom backup files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := logging.DefaultConfig()
			cfg.Level = opts.logLevel
			cfg.Format = "console"
			cfg.Output = cmd.ErrOrStderr()
			logging.Init(cfg)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.db.Driver, "db-driver", opts.db.Driver, "store driver: duckdb or sqlite3")
	flags.StringVar(&opts.db.Path, "db-path", opts.db.Path, "store path")

	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newRestoreCmd(opts))
	return cmd
}
