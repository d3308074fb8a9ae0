// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered with the default registry through promauto and
exposed by the HTTP server at /metrics.

# Available Metrics

Restore Metrics:
  - classroom_restore_duration_seconds: Restore run time (histogram)
    Labels: mode (full, scoped, merge), outcome (committed, dry_run, rejected, failed)
  - classroom_restore_rows_total: Backup records processed (counter)
    Labels: entity, result (created, matched, skipped, dropped)
  - classroom_restore_failures_total: Restores aborted by a store error (counter)
    Labels: entity
  - classroom_restore_in_progress: Running restores (gauge)

HTTP Metrics:
  - classroom_api_requests_total: Total API requests (counter)
    Labels: method, path, status
  - classroom_api_request_duration_seconds: Request latency (histogram)
    Labels: method, path
  - classroom_api_active_requests: Active requests (gauge)
  - classroom_api_rate_limit_hits_total: Rate limited requests (counter)

Auth and Store Metrics:
  - classroom_auth_login_attempts_total: Admin logins (counter)
    Labels: result
  - classroom_db_query_duration_seconds / classroom_db_query_errors_total
    Labels: operation

# Usage

	start := time.Now()
	// ... handle request ...
	metrics.RecordAPIRequest("POST", "/api/v1/admin/restore", "200", time.Since(start))

The path label is the chi route pattern, never the raw URL, to keep label
cardinality bounded.
*/
package metrics
