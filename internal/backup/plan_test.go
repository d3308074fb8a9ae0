// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"slices"
	"strings"
	"testing"
)

func stepNames(plan []step) []string {
	names := make([]string, len(plan))
	for i, s := range plan {
		names[i] = s.name
	}
	return names
}

func TestBuildPlan_DependencyOrderHolds(t *testing.T) {
	t.Parallel()

	skips := []Options{
		{},
		{SkipUsers: true},
		{SkipGrades: true, SkipQuizAttempts: true},
		{SkipExercises: true, SkipQuizQuestions: true, SkipLessonNotes: true, SkipPDFResources: true},
	}
	for _, enc := range []Encoding{EncodingFlat, EncodingNested, EncodingMixed} {
		for _, mode := range []Mode{ModeFull, ModeScoped, ModeMerge} {
			for _, opts := range skips {
				plan := buildPlan(enc, mode, opts)
				if err := checkOrder(plan); err != nil {
					t.Errorf("%s/%s/%+v: %v", enc, mode, opts, err)
				}
			}
		}
	}
}

func TestBuildPlan_FullFlatOrder(t *testing.T) {
	t.Parallel()

	want := []string{
		"users", "cohorts", "students", "instructors", "assessorAccreditations",
		"unitStandards", "competencyUnits", "rubrics", "rubricCriteria", "rubricLevels",
		"rubricCriteriaMappings", "rubricLevelMappings",
		"courses", "courseInstructors", "lessons", "exercises", "quizQuestions", "lessonNotes", "pdfResources",
		"courseSubscriptions", "exerciseSubmissions", "grades", "gradeCriteria", "quizAttempts", "assessmentAuditLogs",
	}
	got := stepNames(buildPlan(EncodingFlat, ModeFull, Options{}))
	if !slices.Equal(got, want) {
		t.Errorf("plan = %v\nwant   %v", got, want)
	}
}

func TestBuildPlan_NestedRunsBeforeCrossCuttingEntities(t *testing.T) {
	t.Parallel()

	names := stepNames(buildPlan(EncodingNested, ModeFull, Options{}))
	nested := slices.Index(names, stepNested)
	if nested < 0 {
		t.Fatalf("nested step missing from %v", names)
	}
	for _, prereq := range []string{"users", "rubricLevelMappings", "competencyUnits"} {
		if i := slices.Index(names, prereq); i > nested {
			t.Errorf("%s runs after the nested walk", prereq)
		}
	}
	for _, later := range []string{"courseInstructors", "courseSubscriptions", "grades", "assessmentAuditLogs"} {
		if i := slices.Index(names, later); i < nested {
			t.Errorf("%s runs before the nested walk", later)
		}
	}
}

func TestBuildPlan_ScopedExcludesPeopleAndHistory(t *testing.T) {
	t.Parallel()

	names := stepNames(buildPlan(EncodingNested, ModeScoped, Options{}))
	for _, excluded := range []string{
		"cohorts", "students", "instructors", "assessorAccreditations", "courses", "courseInstructors",
		"courseSubscriptions", "exerciseSubmissions", "grades", "gradeCriteria", "quizAttempts", "assessmentAuditLogs",
	} {
		if slices.Contains(names, excluded) {
			t.Errorf("scoped plan contains %s: %v", excluded, names)
		}
	}
	for _, included := range []string{"users", "rubrics", "courseTargets", stepNested, "lessons", "exercises"} {
		if !slices.Contains(names, included) {
			t.Errorf("scoped plan lacks %s: %v", included, names)
		}
	}
}

func TestBuildPlan_SkipFlagsRemoveSteps(t *testing.T) {
	t.Parallel()

	names := stepNames(buildPlan(EncodingFlat, ModeFull, Options{SkipGrades: true, SkipPDFResources: true}))
	for _, removed := range []string{"grades", "gradeCriteria", "pdfResources"} {
		if slices.Contains(names, removed) {
			t.Errorf("plan contains skipped step %s", removed)
		}
	}
	if !slices.Contains(names, "assessmentAuditLogs") {
		t.Error("audit logs should still run when grades are skipped")
	}
}

func TestCheckOrder_DetectsViolation(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, *run, *Data) error { return nil }
	plan := []step{
		single(EntityStudents, noop, EntityUsers),
		single(EntityUsers, noop),
	}
	err := checkOrder(plan)
	if err == nil {
		t.Fatal("checkOrder() = nil, want an error")
	}
	if !strings.Contains(err.Error(), "students") || !strings.Contains(err.Error(), "users") {
		t.Errorf("error %q should name both steps", err)
	}

	// a dependency nobody produces is allowed
	if err := checkOrder([]step{single(EntityStudents, noop, EntityUsers)}); err != nil {
		t.Errorf("checkOrder() = %v for an unproduced dependency", err)
	}
}

func TestStepEntity(t *testing.T) {
	t.Parallel()

	plan := buildPlan(EncodingNested, ModeFull, Options{})
	for _, s := range plan {
		got := stepEntity(s)
		switch s.name {
		case stepNested, "courseTargets":
			if got != EntityCourses {
				t.Errorf("stepEntity(%s) = %s, want courses", s.name, got)
			}
		default:
			if string(got) != s.name {
				t.Errorf("stepEntity(%s) = %s", s.name, got)
			}
		}
	}
}
