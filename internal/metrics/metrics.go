// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Restore Metrics
	RestoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classroom_restore_duration_seconds",
			Help:    "Duration of backup restores in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"mode", "outcome"}, // outcome: committed, dry_run, rejected, failed
	)

	RestoreRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classroom_restore_rows_total",
			Help: "Backup records processed by restores, by entity type and result",
		},
		[]string{"entity", "result"}, // result: created, matched, skipped, dropped
	)

	RestoreFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classroom_restore_failures_total",
			Help: "Restores aborted by a store error, by the entity type being restored",
		},
		[]string{"entity"},
	)

	RestoreInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classroom_restore_in_progress",
			Help: "Number of restores currently running",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classroom_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classroom_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 60},
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classroom_api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classroom_api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	// Auth Metrics
	AuthLoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classroom_auth_login_attempts_total",
			Help: "Admin login attempts by result",
		},
		[]string{"result"}, // success, invalid_credentials, invalid_request
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classroom_db_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classroom_db_query_errors_total",
			Help: "Total number of store query errors",
		},
		[]string{"operation"},
	)
)

// RecordRestore records the outcome of one restore run.
func RecordRestore(mode, outcome string, duration time.Duration) {
	if mode == "" {
		mode = "unknown"
	}
	RestoreDuration.WithLabelValues(mode, outcome).Observe(duration.Seconds())
}

// RecordRestoreRows adds the per-result counts for one entity type.
func RecordRestoreRows(entity string, created, matched, skipped, dropped int) {
	for result, n := range map[string]int{
		"created": created,
		"matched": matched,
		"skipped": skipped,
		"dropped": dropped,
	} {
		if n > 0 {
			RestoreRows.WithLabelValues(entity, result).Add(float64(n))
		}
	}
}

// RecordRestoreFailure counts a restore aborted while restoring entity.
func RecordRestoreFailure(entity string) {
	RestoreFailures.WithLabelValues(entity).Inc()
}

// TrackRestore adjusts the in-progress gauge.
func TrackRestore(inc bool) {
	if inc {
		RestoreInProgress.Inc()
	} else {
		RestoreInProgress.Dec()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, path, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(path string) {
	APIRateLimitHits.WithLabelValues(path).Inc()
}

// RecordLogin counts an admin login attempt.
func RecordLogin(result string) {
	AuthLoginAttempts.WithLabelValues(result).Inc()
}

// RecordDBQuery records a store query metric
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
