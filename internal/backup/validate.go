// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// validateDocument applies the format checks. Nothing here touches the store.
func validateDocument(doc *Document) error {
	if doc == nil || doc.Metadata == nil {
		return ErrMissingMetadata
	}
	if doc.Data == nil {
		return ErrMissingData
	}
	if v := strings.TrimSpace(doc.Metadata.Version); v != SupportedVersion {
		return fmt.Errorf("%w: got %q, want %q", ErrUnsupportedVersion, v, SupportedVersion)
	}
	if err := checkIdentifiers(doc.Data); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return nil
}

// idChecker collects id problems for one entity type.
type idChecker struct {
	entity EntityType
	seen   map[ID]bool
	errs   *multierror.Error
}

func (c *idChecker) add(i int, id ID) {
	if id == "" {
		c.errs = multierror.Append(c.errs, fmt.Errorf("%s[%d]: missing id", c.entity, i))
		return
	}
	if c.seen[id] {
		c.errs = multierror.Append(c.errs, fmt.Errorf("%s[%d]: duplicate id %q", c.entity, i, id))
		return
	}
	c.seen[id] = true
}

// checkIdentifiers requires a unique, non-empty id on every record of a type
// that other records reference. All problems are reported together.
func checkIdentifiers(d *Data) error {
	var errs *multierror.Error
	check := func(entity EntityType, ids []ID) {
		c := &idChecker{entity: entity, seen: make(map[ID]bool, len(ids)), errs: errs}
		for i, id := range ids {
			c.add(i, id)
		}
		errs = c.errs
	}

	check(EntityUsers, idsOf(d.Users, func(r User) ID { return r.ID }))
	check(EntityCohorts, idsOf(d.Cohorts, func(r Cohort) ID { return r.ID }))
	check(EntityStudents, idsOf(d.Students, func(r Student) ID { return r.ID }))
	check(EntityInstructors, idsOf(d.Instructors, func(r Instructor) ID { return r.ID }))
	check(EntityUnitStandards, idsOf(d.UnitStandards, func(r UnitStandard) ID { return r.ID }))
	check(EntityCompetencyUnits, idsOf(d.CompetencyUnits, func(r CompetencyUnit) ID { return r.ID }))
	check(EntityRubrics, idsOf(d.Rubrics, func(r Rubric) ID { return r.ID }))
	check(EntityRubricCriteria, idsOf(d.RubricCriteria, func(r RubricCriterion) ID { return r.ID }))
	check(EntityRubricLevels, idsOf(d.RubricLevels, func(r RubricLevel) ID { return r.ID }))
	check(EntityExerciseSubmissions, idsOf(d.ExerciseSubmissions, func(r ExerciseSubmission) ID { return r.ID }))
	check(EntityGrades, idsOf(d.Grades, func(r Grade) ID { return r.ID }))

	// Course-tree records may appear both nested and flat in a mixed
	// backup, so ids are checked within each encoding separately.
	var courses, lessons, exercises, questions []ID
	for _, b := range d.CoursesNested {
		courses = append(courses, b.Course.ID)
		for _, l := range b.Lessons {
			lessons = append(lessons, l.Lesson.ID)
			for _, e := range l.Exercises {
				exercises = append(exercises, e.ID)
			}
			for _, q := range l.QuizQuestions {
				questions = append(questions, q.ID)
			}
		}
	}
	check(EntityCourses, courses)
	check(EntityLessons, lessons)
	check(EntityExercises, exercises)
	check(EntityQuizQuestions, questions)

	check(EntityCourses, idsOf(d.Courses, func(r Course) ID { return r.ID }))
	check(EntityLessons, idsOf(d.Lessons, func(r Lesson) ID { return r.ID }))
	check(EntityExercises, idsOf(d.Exercises, func(r Exercise) ID { return r.ID }))
	check(EntityQuizQuestions, idsOf(d.QuizQuestions, func(r QuizQuestion) ID { return r.ID }))

	if errs == nil {
		return nil
	}
	errs.ErrorFormat = listFormat
	return errs
}

func idsOf[T any](records []T, id func(T) ID) []ID {
	out := make([]ID, len(records))
	for i, r := range records {
		out[i] = id(r)
	}
	return out
}

// listFormat renders a multierror on one line for API responses.
func listFormat(errs []error) string {
	const limit = 10
	parts := make([]string, 0, limit+1)
	for i, err := range errs {
		if i == limit {
			parts = append(parts, fmt.Sprintf("and %d more", len(errs)-limit))
			break
		}
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("%d problem(s): %s", len(errs), strings.Join(parts, "; "))
}

// resolveMode validates the options against the document and picks the
// strategy. Warnings describe options that were ignored.
func resolveMode(d *Data, opts Options) (Mode, []string, error) {
	var warnings []string

	mode := ModeFull
	switch {
	case opts.SourceCourseID != "" && opts.RestoreToCourseID != "":
		mode = ModeScoped
	case opts.RestoreToCourseID != "":
		if !opts.MergeAllCourses {
			return "", nil, ErrIncompleteScope
		}
		mode = ModeMerge
	case opts.SourceCourseID != "":
		// A source course on its own selects nothing to remap onto.
		return "", nil, fmt.Errorf("%w: sourceCourseId given without restoreToCourseId", ErrIncompleteScope)
	}

	if opts.SourceCourseID != "" && !d.HasCourse(opts.SourceCourseID) {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownSourceCourse, opts.SourceCourseID)
	}

	if opts.ClearExisting && mode != ModeFull {
		warnings = append(warnings, "clearExisting ignored: existing data is never cleared for a course-targeted restore")
	}
	if opts.MergeAllCourses && mode == ModeScoped {
		warnings = append(warnings, "mergeAllCourses ignored: sourceCourseId selects a single course")
	}
	return mode, warnings, nil
}
