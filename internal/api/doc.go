// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

/*
Package api provides the admin HTTP API for Classroom.

Routes:

	POST /api/v1/auth/login        issue a JWT for the configured admin
	POST /api/v1/admin/restore     restore a backup document (admin)
	GET  /api/v1/admin/restores    restore history, newest first (admin)
	GET  /api/v1/admin/tables      row counts per restorable table (admin)
	GET  /api/v1/health/live       liveness probe
	GET  /api/v1/health/ready      readiness probe (pings the store)
	GET  /metrics                  Prometheus metrics

Every JSON response uses the models.APIResponse envelope. Restore failures map
to status codes as follows:

  - 400 INVALID_BACKUP / VALIDATION_ERROR / COURSE_NOT_FOUND: the document or
    options were rejected before anything was written
  - 413 PAYLOAD_TOO_LARGE: the body, before or after decompression, exceeded
    restore.max_body_bytes
  - 500 RESTORE_FAILED: a step failed and the transaction rolled back;
    details.entity names the step

Restore bodies may be sent with Content-Encoding gzip or zstd.

Usage:

	h := api.NewHandler(cfg, engine, db, creds, jwtManager, lockout)
	router := api.NewRouter(h, auth.NewMiddleware(jwtManager, cfg.Security.AuthMode), cfg)
	srv := &http.Server{Handler: router.Setup()}
*/
package api
