// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator. Rejected fields are reported by
// their JSON path and rule, never by value.
//
// # Usage
//
//	type LoginRequest struct {
//	    Username string `json:"username" validate:"notblank,max=64"`
//	    Password string `json:"password" validate:"required,max=256"`
//	}
//
//	if errs := validation.Struct(&req); errs != nil {
//	    respondErrorDetails(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
//	        errs.Error(), errs.Details(), nil)
//	    return
//	}
//
// # Custom Tags
//
//   - notblank: string is non-empty after trimming whitespace
//   - recordid: opaque row id, 1-128 bytes, no whitespace
//
// The restore endpoint validates its envelope here, including the course ids
// in its options. Document-level format checks (version, required arrays, id
// shapes) live in the backup package because they aggregate every problem
// into one rejection.
package validation
