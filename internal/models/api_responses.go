// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "RESTORE_FAILED",
//	    "message": "restore failed while restoring grades: ...",
//	    "details": {"entity": "grades"}
//	  },
//	  "metadata": {"timestamp": "2026-10-16T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
// QueryTimeMS is the handler's time spent in the store or engine.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError represents error details in API responses.
//
// Common error codes:
//   - VALIDATION_ERROR: Request envelope or query parameter is invalid
//   - INVALID_BACKUP: Document failed format or option checks
//   - COURSE_NOT_FOUND: Target course of a scoped or merge restore is missing
//   - RESTORE_FAILED: A restore step failed and the transaction rolled back
//   - PAYLOAD_TOO_LARGE: Request body exceeded the configured limit
//   - UNAUTHORIZED / FORBIDDEN: Authentication or role check failed
//   - DATABASE_ERROR: Store query failed
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Success wraps data in a success envelope stamped with now.
func Success(data interface{}, now time.Time) *APIResponse {
	return &APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: Metadata{Timestamp: now},
	}
}
