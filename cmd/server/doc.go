// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

/*
Package main is the entry point for the Classroom restore server.

The server exposes the backup restore engine over an authenticated admin
API and runs under Suture v4 process supervision:

	RootSupervisor ("classroom")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Login lockout cleanup
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB (default) or SQLite, schema migrations applied on open
 4. Restore engine: optional restore history recording
 5. Authentication: JWT with a single admin account, or no-auth mode
 6. HTTP Server: Chi router with middleware stack
 7. Supervisor Tree: Suture v4, stopped on SIGINT or SIGTERM

# Configuration

Core environment variables:

	# Server
	HTTP_PORT=8480
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Store
	DB_DRIVER=duckdb             # duckdb or sqlite3
	DB_PATH=/data/classroom.duckdb

	# Authentication
	AUTH_MODE=jwt                # jwt or none
	JWT_SECRET=<32+ chars>
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=<password>

	# Restore
	RESTORE_MAX_BODY_BYTES=268435456
	RESTORE_TIMEOUT=10m
	RESTORE_RECORD_HISTORY=true

# Endpoints

	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	POST /api/v1/auth/login
	POST /api/v1/admin/restore
	GET  /api/v1/admin/restores
	GET  /api/v1/admin/tables
	GET  /metrics
*/
package main
