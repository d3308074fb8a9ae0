// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/classroom/internal/models"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, models.Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, h.now()))
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 503 until the store answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := models.HealthStatus{Status: "ready", Database: "connected", Version: Version}
	code := http.StatusOK
	if h.store == nil || h.store.Ping(ctx) != nil {
		status.Status = "not_ready"
		status.Database = "unavailable"
		code = http.StatusServiceUnavailable
	}

	resp := models.Success(status, h.now())
	if code != http.StatusOK {
		resp.Status = "error"
	}
	respondJSON(w, r, code, resp)
}
