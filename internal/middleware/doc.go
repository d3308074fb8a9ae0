// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

/*
Package middleware provides the HTTP middleware shared by the API router.

  - RequestID: assigns or propagates X-Request-ID and seeds the logging
    context with request_id and correlation_id
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - Compression: gzip response compression for clients that accept it

All middleware uses the standard func(http.Handler) http.Handler shape so it
can be mounted with chi's Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
