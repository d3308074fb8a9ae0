// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"errors"
	"fmt"
)

// Format errors: the document itself is unusable.
var (
	ErrMissingMetadata    = errors.New("backup metadata is missing")
	ErrMissingData        = errors.New("backup data is missing")
	ErrUnsupportedVersion = errors.New("unsupported backup version")
	ErrMalformedDocument  = errors.New("backup document is malformed")
)

// Validation errors: the options do not fit the document or the store.
var (
	ErrUnknownSourceCourse = errors.New("source course not found in backup")
	ErrUnknownTargetCourse = errors.New("destination course not found")
	ErrIncompleteScope     = errors.New("restoreToCourseId requires sourceCourseId")
)

// ErrUnresolvedConflict means an insert hit a uniqueness conflict but the
// conflicting row could not be found again.
var ErrUnresolvedConflict = errors.New("conflicting row could not be located")

// IsRejection reports whether err was raised before any store mutation
// because the request was invalid.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrMissingMetadata, ErrMissingData, ErrUnsupportedVersion, ErrMalformedDocument,
		ErrUnknownSourceCourse, ErrUnknownTargetCourse, ErrIncompleteScope,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// StepError is a fatal store error raised while restoring Entity.
type StepError struct {
	Entity EntityType
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("restore failed while restoring %s: %v", e.Entity, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
