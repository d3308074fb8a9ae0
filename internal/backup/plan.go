// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"fmt"
)

// stepFunc restores one entity type (or the nested tree) from d.
type stepFunc func(ctx context.Context, r *run, d *Data) error

// step is one entry of the restore plan. A step may only run after every
// step producing one of its deps.
type step struct {
	name     string
	produces []EntityType
	deps     []EntityType
	fn       stepFunc
}

// stepNested is the name of the step walking Data.CoursesNested.
const stepNested = "coursesNested"

func single(e EntityType, fn stepFunc, deps ...EntityType) step {
	return step{name: string(e), produces: []EntityType{e}, deps: deps, fn: fn}
}

// buildPlan selects and orders the steps for a run. The order below is the
// fixed dependency order; options and mode only remove steps.
func buildPlan(enc Encoding, mode Mode, opts Options) []step {
	full := mode == ModeFull
	var plan []step
	add := func(ok bool, s step) {
		if ok {
			plan = append(plan, s)
		}
	}

	// People. Scoped and merge restores still match users so rubric
	// authorship survives, but never create them.
	add(true, single(EntityUsers, restoreUsers))
	add(full, single(EntityCohorts, restoreCohorts))
	add(full, single(EntityStudents, restoreStudents, EntityUsers, EntityCohorts))
	add(full, single(EntityInstructors, restoreInstructors, EntityUsers))
	add(full, single(EntityAssessorAccreditations, restoreAccreditations, EntityInstructors))

	// Standards and rubric definitions.
	add(true, single(EntityUnitStandards, restoreUnitStandards))
	add(true, single(EntityCompetencyUnits, restoreCompetencyUnits, EntityUnitStandards))
	add(true, single(EntityRubrics, restoreRubrics, EntityUsers))
	add(true, single(EntityRubricCriteria, restoreRubricCriteria, EntityRubrics))
	add(true, single(EntityRubricLevels, restoreRubricLevels, EntityRubricCriteria))
	add(true, single(EntityRubricCriteriaMappings, restoreRubricCriteriaMappings, EntityRubricCriteria, EntityUnitStandards))
	add(true, single(EntityRubricLevelMappings, restoreRubricLevelMappings, EntityRubricLevels, EntityCompetencyUnits))

	// Course targets for scoped and merge restores are seeded, not created.
	add(!full, step{name: "courseTargets", produces: []EntityType{EntityCourses}, fn: mapCourseTargets})

	// Course tree.
	add(enc != EncodingFlat, step{
		name: stepNested,
		produces: []EntityType{
			EntityCourses, EntityLessons, EntityExercises,
			EntityQuizQuestions, EntityLessonNotes, EntityPDFResources,
		},
		deps: []EntityType{EntityUsers, EntityRubrics, EntityCompetencyUnits},
		fn:   restoreNested,
	})
	add(full, single(EntityCourses, restoreCourses, EntityUsers))
	add(full, single(EntityCourseInstructors, restoreCourseInstructors, EntityCourses, EntityInstructors))
	add(true, single(EntityLessons, restoreLessons, EntityCourses))
	add(!opts.SkipExercises, single(EntityExercises, restoreExercises, EntityLessons, EntityRubrics, EntityCompetencyUnits))
	add(!opts.SkipQuizQuestions, single(EntityQuizQuestions, restoreQuizQuestions, EntityLessons))
	add(!opts.SkipLessonNotes, single(EntityLessonNotes, restoreLessonNotes, EntityLessons))
	add(!opts.SkipPDFResources, single(EntityPDFResources, restorePDFResources, EntityLessons))

	// Student history, full restores only.
	add(full, single(EntityCourseSubscriptions, restoreCourseSubscriptions, EntityCourses, EntityStudents))
	add(full, single(EntityExerciseSubmissions, restoreSubmissions, EntityExercises, EntityStudents))
	add(full && !opts.SkipGrades, single(EntityGrades, restoreGrades,
		EntityStudents, EntityExercises, EntityExerciseSubmissions, EntityInstructors))
	add(full && !opts.SkipGrades, single(EntityGradeCriteria, restoreGradeCriteria,
		EntityGrades, EntityRubricCriteria, EntityRubricLevels))
	add(full && !opts.SkipQuizAttempts, single(EntityQuizAttempts, restoreQuizAttempts, EntityQuizQuestions, EntityStudents))
	add(full, single(EntityAssessmentAuditLogs, restoreAuditLogs, EntityGrades, EntityUsers))

	return plan
}

// checkOrder verifies that no step depends on an entity type produced by a
// later step. A dependency produced by no step at all is allowed: its
// references resolve to nothing and dependants are dropped or nulled.
func checkOrder(plan []step) error {
	producedAt := make(map[EntityType]int)
	for i, s := range plan {
		for _, e := range s.produces {
			producedAt[e] = i // last producer wins
		}
	}
	for i, s := range plan {
		for _, dep := range s.deps {
			if at, ok := producedAt[dep]; ok && at > i {
				return fmt.Errorf("step %s depends on %s, which is produced later by %s", s.name, dep, plan[at].name)
			}
		}
	}
	return nil
}

// stepEntity is the entity type a failure in s is reported under.
func stepEntity(s step) EntityType {
	if len(s.produces) > 0 && s.name != stepNested {
		return s.produces[0]
	}
	return EntityCourses
}
