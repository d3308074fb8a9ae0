// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import "time"

// Options controls a restore run.
type Options struct {
	// ClearExisting deletes every restorable table first, inside the same
	// transaction. Ignored, with a warning, for scoped and merge restores.
	ClearExisting bool `json:"clearExisting,omitempty"`

	// SkipUsers matches backup users to existing users by email but never
	// creates users.
	SkipUsers bool `json:"skipUsers,omitempty"`

	SkipGrades        bool `json:"skipGrades,omitempty"`
	SkipQuizAttempts  bool `json:"skipQuizAttempts,omitempty"`
	SkipExercises     bool `json:"skipExercises,omitempty"`
	SkipQuizQuestions bool `json:"skipQuizQuestions,omitempty"`
	SkipLessonNotes   bool `json:"skipLessonNotes,omitempty"`
	SkipPDFResources  bool `json:"skipPdfResources,omitempty"`

	// SourceCourseID is a backup-time course id.
	SourceCourseID ID `json:"sourceCourseId,omitempty" validate:"omitempty,recordid"`

	// RestoreToCourseID is a live course id.
	RestoreToCourseID string `json:"restoreToCourseId,omitempty" validate:"omitempty,recordid"`

	// MergeAllCourses allows RestoreToCourseID without SourceCourseID: every
	// backup course is merged onto the destination.
	MergeAllCourses bool `json:"mergeAllCourses,omitempty"`

	// DryRun runs every step and rolls back.
	DryRun bool `json:"dryRun,omitempty"`
}

// Mode is the restore strategy chosen from Options.
type Mode string

const (
	ModeFull   Mode = "full"
	ModeScoped Mode = "scoped"
	ModeMerge  Mode = "merge"
)

// Stats maps an entity type to the number of rows created.
type Stats map[string]int

// StepCounts breaks down what happened to the records of one entity type.
type StepCounts struct {
	Created int `json:"created"`
	Matched int `json:"matched"`
	Skipped int `json:"skipped"`
	Dropped int `json:"dropped"`
}

// Result is returned by a successful restore.
type Result struct {
	Success      bool                       `json:"success"`
	Stats        Stats                      `json:"stats"`
	Details      map[EntityType]*StepCounts `json:"details,omitempty"`
	RestoredFrom *Metadata                  `json:"restoredFrom"`
	Mode         Mode                       `json:"mode"`
	Encoding     Encoding                   `json:"encoding"`
	DryRun       bool                       `json:"dryRun,omitempty"`
	Warnings     []string                   `json:"warnings,omitempty"`
	RunID        string                     `json:"runId,omitempty"`
	Duration     time.Duration              `json:"-"`
}

// Total returns the number of rows created across all entity types.
func (s Stats) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}
