// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package api

// API error codes.
const (
	codeValidation     = "VALIDATION_ERROR"
	codeInvalidBackup  = "INVALID_BACKUP"
	codeCourseNotFound = "COURSE_NOT_FOUND"
	codeRestoreFailed  = "RESTORE_FAILED"
	codeTooLarge       = "PAYLOAD_TOO_LARGE"
	codeUnauthorized   = "UNAUTHORIZED"
	codeAccountLocked  = "ACCOUNT_LOCKED"
	codeDatabase       = "DATABASE_ERROR"
	codeRateLimited    = "RATE_LIMITED"
)
