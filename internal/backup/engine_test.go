// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/classroom/internal/database"
)

func TestRestore_ExampleScenario(t *testing.T) {
	db := setupTestDB(t)
	e := NewEngine(db.Sqlx())

	res := mustRestore(t, e, exampleBackup(), Options{})
	assertStats(t, res.Stats, map[string]int{"users": 1, "cohorts": 1, "students": 1})
	if res.Mode != ModeFull || res.Encoding != EncodingFlat {
		t.Errorf("mode/encoding = %s/%s, want full/flat", res.Mode, res.Encoding)
	}
	if res.RestoredFrom == nil || res.RestoredFrom.Version != SupportedVersion {
		t.Errorf("RestoredFrom = %+v", res.RestoredFrom)
	}

	ctx := context.Background()
	var student struct {
		UserID   string `db:"user_id"`
		CohortID string `db:"cohort_id"`
	}
	if err := db.Sqlx().GetContext(ctx, &student,
		`SELECT user_id, cohort_id FROM students WHERE registration_number = 'REG-1'`); err != nil {
		t.Fatalf("select student: %v", err)
	}
	var userID, cohortID string
	if err := db.Sqlx().GetContext(ctx, &userID, `SELECT id FROM users WHERE email = 'a@x.com'`); err != nil {
		t.Fatalf("select user: %v", err)
	}
	if err := db.Sqlx().GetContext(ctx, &cohortID, `SELECT id FROM cohorts WHERE name = '2024'`); err != nil {
		t.Fatalf("select cohort: %v", err)
	}
	if student.UserID != userID || student.CohortID != cohortID {
		t.Errorf("student references (%s, %s), want (%s, %s)", student.UserID, student.CohortID, userID, cohortID)
	}
	if userID == "1" || cohortID == "7" {
		t.Error("backup-time ids were reused as live ids")
	}

	// second run matches everything
	res = mustRestore(t, e, exampleBackup(), Options{})
	assertStats(t, res.Stats, map[string]int{"users": 0, "cohorts": 0, "students": 0})
	counts := rowCounts(t, db)
	for _, table := range []string{"users", "cohorts", "students"} {
		if counts[table] != 1 {
			t.Errorf("%s has %d rows, want 1", table, counts[table])
		}
	}
}

func TestRestore_FullBackupIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		doc  func() *Document
		enc  Encoding
	}{
		{"nested", fullBackup, EncodingNested},
		{"flat", func() *Document { return flatten(fullBackup()) }, EncodingFlat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			e := NewEngine(db.Sqlx())

			first := mustRestore(t, e, tt.doc(), Options{})
			if first.Encoding != tt.enc {
				t.Errorf("Encoding = %s, want %s", first.Encoding, tt.enc)
			}
			want := map[string]int{}
			for _, table := range database.RestorableTables {
				want[table] = 1
			}
			want["users"] = 2
			after := rowCounts(t, db)
			for table, n := range want {
				if after[table] != int64(n) {
					t.Errorf("after first run %s has %d rows, want %d", table, after[table], n)
				}
			}
			if first.Stats.Total() != 26 {
				t.Errorf("first run created %d rows, want 26 (stats %v)", first.Stats.Total(), first.Stats)
			}

			second := mustRestore(t, e, tt.doc(), Options{})
			for entity, n := range second.Stats {
				if n != 0 {
					t.Errorf("second run stats[%s] = %d, want 0", entity, n)
				}
			}
			if len(second.Stats) != len(first.Stats) {
				t.Errorf("second run reported %d entity types, first %d", len(second.Stats), len(first.Stats))
			}
			again := rowCounts(t, db)
			for table, n := range after {
				if again[table] != n {
					t.Errorf("second run changed %s from %d to %d rows", table, n, again[table])
				}
			}
		})
	}
}

// foreignKeys lists every reference column; nullable ones may be NULL.
var foreignKeys = []struct {
	table, column, refTable string
	nullable                bool
}{
	{"students", "user_id", "users", false},
	{"students", "cohort_id", "cohorts", true},
	{"instructors", "user_id", "users", false},
	{"assessor_accreditations", "instructor_id", "instructors", false},
	{"competency_units", "unit_standard_id", "unit_standards", false},
	{"rubrics", "created_by_id", "users", true},
	{"rubric_criteria", "rubric_id", "rubrics", false},
	{"rubric_levels", "criterion_id", "rubric_criteria", false},
	{"rubric_criteria_mappings", "criterion_id", "rubric_criteria", false},
	{"rubric_criteria_mappings", "unit_standard_id", "unit_standards", false},
	{"rubric_level_mappings", "level_id", "rubric_levels", false},
	{"rubric_level_mappings", "competency_unit_id", "competency_units", false},
	{"courses", "created_by_id", "users", true},
	{"course_instructors", "course_id", "courses", false},
	{"course_instructors", "instructor_id", "instructors", false},
	{"lessons", "course_id", "courses", false},
	{"exercises", "lesson_id", "lessons", false},
	{"exercises", "rubric_id", "rubrics", true},
	{"exercises", "competency_unit_id", "competency_units", true},
	{"quiz_questions", "lesson_id", "lessons", false},
	{"lesson_notes", "lesson_id", "lessons", false},
	{"pdf_resources", "lesson_id", "lessons", false},
	{"course_subscriptions", "course_id", "courses", false},
	{"course_subscriptions", "student_id", "students", false},
	{"exercise_submissions", "exercise_id", "exercises", false},
	{"exercise_submissions", "student_id", "students", false},
	{"grades", "student_id", "students", false},
	{"grades", "exercise_id", "exercises", false},
	{"grades", "submission_id", "exercise_submissions", true},
	{"grades", "graded_by_id", "instructors", true},
	{"grade_criteria", "grade_id", "grades", false},
	{"grade_criteria", "criterion_id", "rubric_criteria", false},
	{"grade_criteria", "level_id", "rubric_levels", true},
	{"quiz_attempts", "quiz_question_id", "quiz_questions", false},
	{"quiz_attempts", "student_id", "students", false},
	{"assessment_audit_logs", "grade_id", "grades", true},
	{"assessment_audit_logs", "actor_id", "users", true},
}

func assertNoDanglingReferences(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()
	for _, fk := range foreignKeys {
		query := "SELECT COUNT(*) FROM " + fk.table + " t LEFT JOIN " + fk.refTable + " r ON r.id = t." + fk.column +
			" WHERE r.id IS NULL"
		if fk.nullable {
			query += " AND t." + fk.column + " IS NOT NULL"
		} else {
			var nulls int
			if err := db.Sqlx().GetContext(ctx, &nulls,
				"SELECT COUNT(*) FROM "+fk.table+" WHERE "+fk.column+" IS NULL"); err != nil {
				t.Fatalf("count nulls %s.%s: %v", fk.table, fk.column, err)
			}
			if nulls != 0 {
				t.Errorf("%s.%s has %d NULL required references", fk.table, fk.column, nulls)
			}
		}
		var dangling int
		if err := db.Sqlx().GetContext(ctx, &dangling, query); err != nil {
			t.Fatalf("check %s.%s: %v", fk.table, fk.column, err)
		}
		if dangling != 0 {
			t.Errorf("%s.%s has %d dangling references to %s", fk.table, fk.column, dangling, fk.refTable)
		}
	}
}

func TestRestore_ReferentialIntegrity(t *testing.T) {
	db := setupTestDB(t)
	e := NewEngine(db.Sqlx())

	doc := fullBackup()
	// references that cannot be resolved
	doc.Data.Students = append(doc.Data.Students,
		Student{ID: "s-orphan", UserID: "missing-user", RegistrationNumber: "REG-404"})
	doc.Data.Grades = append(doc.Data.Grades,
		Grade{ID: "g-orphan", StudentID: "s1", ExerciseID: "missing-exercise", Score: 1})
	doc.Data.Rubrics = append(doc.Data.Rubrics,
		Rubric{ID: "rb2", Title: "Orphan author", CreatedByID: "missing-user"})
	doc.Data.AssessmentAuditLogs = append(doc.Data.AssessmentAuditLogs,
		AssessmentAuditLog{ID: "al2", GradeID: "missing-grade", Action: "viewed", CreatedAt: at(0)})

	res := mustRestore(t, e, doc, Options{})
	assertNoDanglingReferences(t, db)

	if got := res.Details[EntityStudents]; got.Created != 1 || got.Dropped != 1 {
		t.Errorf("students = %+v, want 1 created and 1 dropped", got)
	}
	if got := res.Details[EntityGrades]; got.Created != 1 || got.Dropped != 1 {
		t.Errorf("grades = %+v, want 1 created and 1 dropped", got)
	}
	// optional references are nulled, not dropped
	if res.Stats["rubrics"] != 2 || res.Stats["assessmentAuditLogs"] != 2 {
		t.Errorf("stats = %v, want 2 rubrics and 2 audit logs", res.Stats)
	}
}

func TestRestore_ScopedCopiesCurriculumOntoDestination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	if _, err := db.Sqlx().ExecContext(ctx,
		`INSERT INTO courses (id, title, created_at) VALUES ('c2-live', 'Destination', ?)`, fixtureTime); err != nil {
		t.Fatalf("seed destination course: %v", err)
	}
	e := NewEngine(db.Sqlx())

	doc := fullBackup()
	doc.Data.CoursesNested[0].Course.ID = "C1"
	doc.Data.CoursesNested[0].Lessons[0].Lesson.LessonNumber = 4
	doc.Data.CourseInstructors[0].CourseID = "C1"
	doc.Data.CourseSubscriptions[0].CourseID = "C1"
	// a second course that is out of scope
	doc.Data.CoursesNested = append(doc.Data.CoursesNested, CourseBundle{
		Course:  Course{ID: "C9", Title: "Other"},
		Lessons: []LessonBundle{{Lesson: Lesson{ID: "l9", LessonNumber: 1, Title: "Elsewhere"}}},
	})

	res := mustRestore(t, e, doc, Options{SourceCourseID: "C1", RestoreToCourseID: "c2-live"})
	if res.Mode != ModeScoped {
		t.Fatalf("Mode = %s, want scoped", res.Mode)
	}
	if n, ok := res.Stats["courses"]; ok && n != 0 {
		t.Errorf("stats.courses = %d, want unchanged", n)
	}
	if res.Stats["lessons"] != 1 || res.Stats["exercises"] != 1 || res.Stats["quizQuestions"] != 1 {
		t.Errorf("stats = %v, want one lesson, exercise and quiz question", res.Stats)
	}

	var lesson struct {
		CourseID string `db:"course_id"`
		Number   int    `db:"lesson_number"`
	}
	if err := db.Sqlx().GetContext(ctx, &lesson, `SELECT course_id, lesson_number FROM lessons`); err != nil {
		t.Fatalf("select lesson: %v", err)
	}
	if lesson.CourseID != "c2-live" || lesson.Number != 4 {
		t.Errorf("lesson = %+v, want lesson 4 under c2-live", lesson)
	}

	counts := rowCounts(t, db)
	for _, table := range []string{"users", "students", "cohorts", "instructors", "grades",
		"course_subscriptions", "course_instructors", "exercise_submissions", "quiz_attempts"} {
		if counts[table] != 0 {
			t.Errorf("scoped restore wrote %d rows to %s", counts[table], table)
		}
	}
	if counts["courses"] != 1 || counts["lessons"] != 1 {
		t.Errorf("courses=%d lessons=%d, want 1 and 1", counts["courses"], counts["lessons"])
	}
	// curriculum prerequisites come along
	if counts["rubrics"] != 1 || counts["unit_standards"] != 1 || counts["competency_units"] != 1 {
		t.Errorf("prerequisites not restored: %v", counts)
	}
	assertNoDanglingReferences(t, db)

	// running it again matches the lesson and its content
	res = mustRestore(t, e, doc, Options{SourceCourseID: "C1", RestoreToCourseID: "c2-live"})
	if res.Stats.Total() != 0 {
		t.Errorf("second scoped run created rows: %v", res.Stats)
	}
}

func TestRestore_ScopedFlatBackup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	if _, err := db.Sqlx().ExecContext(ctx,
		`INSERT INTO courses (id, title, created_at) VALUES ('dest', 'Destination', ?)`, fixtureTime); err != nil {
		t.Fatalf("seed destination course: %v", err)
	}
	e := NewEngine(db.Sqlx())

	res := mustRestore(t, e, flatten(fullBackup()), Options{SourceCourseID: "c1", RestoreToCourseID: "dest"})
	if res.Stats["lessons"] != 1 || res.Stats["lessonNotes"] != 1 || res.Stats["pdfResources"] != 1 {
		t.Errorf("stats = %v", res.Stats)
	}
	var courseID string
	if err := db.Sqlx().GetContext(ctx, &courseID, `SELECT course_id FROM lessons`); err != nil {
		t.Fatalf("select lesson: %v", err)
	}
	if courseID != "dest" {
		t.Errorf("lesson course = %q, want dest", courseID)
	}
}

func TestRestore_MergeAllCourses(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	if _, err := db.Sqlx().ExecContext(ctx,
		`INSERT INTO courses (id, title, created_at) VALUES ('dest', 'Destination', ?)`, fixtureTime); err != nil {
		t.Fatalf("seed destination course: %v", err)
	}
	e := NewEngine(db.Sqlx())

	doc := &Document{Metadata: metadata(), Data: &Data{CoursesNested: []CourseBundle{
		{Course: Course{ID: "a", Title: "A"}, Lessons: []LessonBundle{{Lesson: Lesson{ID: "la", LessonNumber: 1, Title: "A1"}}}},
		{Course: Course{ID: "b", Title: "B"}, Lessons: []LessonBundle{
			{Lesson: Lesson{ID: "lb1", LessonNumber: 1, Title: "B1"}},
			{Lesson: Lesson{ID: "lb2", LessonNumber: 2, Title: "B2"}},
		}},
	}}}

	if _, err := e.Restore(ctx, doc, Options{RestoreToCourseID: "dest"}); !errors.Is(err, ErrIncompleteScope) {
		t.Fatalf("Restore() without mergeAllCourses error = %v, want ErrIncompleteScope", err)
	}

	res := mustRestore(t, e, doc, Options{RestoreToCourseID: "dest", MergeAllCourses: true, ClearExisting: true})
	if res.Mode != ModeMerge {
		t.Errorf("Mode = %s, want merge", res.Mode)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the ignored clearExisting")
	}
	d := res.Details[EntityLessons]
	if d.Created != 2 || d.Matched != 1 {
		t.Errorf("lessons = %+v, want 2 created and 1 matched", d)
	}
	counts := rowCounts(t, db)
	if counts["courses"] != 1 || counts["lessons"] != 2 {
		t.Errorf("courses=%d lessons=%d, want 1 and 2", counts["courses"], counts["lessons"])
	}
}

func TestRestore_Rejections(t *testing.T) {
	tests := []struct {
		name string
		doc  func() *Document
		opts Options
		want error
	}{
		{"missing metadata", func() *Document { return &Document{Data: &Data{}} }, Options{}, ErrMissingMetadata},
		{"missing data", func() *Document { return &Document{Metadata: metadata()} }, Options{}, ErrMissingData},
		{"old version", func() *Document {
			doc := fullBackup()
			doc.Metadata.Version = "1.0"
			return doc
		}, Options{}, ErrUnsupportedVersion},
		{"newer version", func() *Document {
			doc := fullBackup()
			doc.Metadata.Version = "2.1"
			return doc
		}, Options{}, ErrUnsupportedVersion},
		{"unknown source course", fullBackup, Options{SourceCourseID: "nope", RestoreToCourseID: "x"}, ErrUnknownSourceCourse},
		{"unknown destination course", fullBackup, Options{SourceCourseID: "c1", RestoreToCourseID: "not-live"}, ErrUnknownTargetCourse},
		{"destination without source", fullBackup, Options{RestoreToCourseID: "x"}, ErrIncompleteScope},
		{"source without destination", fullBackup, Options{SourceCourseID: "c1"}, ErrIncompleteScope},
		{"duplicate ids", func() *Document {
			doc := exampleBackup()
			doc.Data.Users = append(doc.Data.Users, User{ID: "1", Email: "b@x.com"})
			return doc
		}, Options{}, ErrMalformedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			e := NewEngine(db.Sqlx(), WithHistory(db))

			res, err := e.Restore(context.Background(), tt.doc(), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Restore() error = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Errorf("Restore() result = %+v, want nil", res)
			}
			if !IsRejection(err) {
				t.Errorf("IsRejection(%v) = false", err)
			}
			for table, n := range rowCounts(t, db) {
				if n != 0 {
					t.Errorf("rejected restore wrote %d rows to %s", n, table)
				}
			}

			// restore_runs is not a restorable table; the refusal is still audited
			runs, err := db.ListRestoreRuns(context.Background(), 10)
			if err != nil {
				t.Fatalf("ListRestoreRuns() error = %v", err)
			}
			if len(runs) != 1 || runs[0].Status != database.RestoreStatusRejected {
				t.Errorf("history = %+v, want one rejected run", runs)
			}
		})
	}
}

func TestRestore_AtomicFailure(t *testing.T) {
	db := setupTestDB(t)
	e := NewEngine(db.Sqlx(), WithHistory(db))

	doc := fullBackup()
	// violates the max_score CHECK after every earlier step has written rows
	doc.Data.CoursesNested[0].Lessons[0].Exercises[0].MaxScore = ptr(-1.0)

	res, err := e.Restore(context.Background(), doc, Options{})
	if err == nil {
		t.Fatalf("Restore() succeeded with %v", res.Stats)
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Restore() error = %T %v, want *StepError", err, err)
	}
	if stepErr.Entity != EntityExercises {
		t.Errorf("failed entity = %s, want exercises", stepErr.Entity)
	}
	if IsRejection(err) {
		t.Error("store failure reported as a rejection")
	}
	for table, n := range rowCounts(t, db) {
		if n != 0 {
			t.Errorf("rolled back restore left %d rows in %s", n, table)
		}
	}

	runs, err := db.ListRestoreRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRestoreRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d history rows, want 1", len(runs))
	}
	if runs[0].Status != database.RestoreStatusFailed || runs[0].FailedEntity.String != "exercises" {
		t.Errorf("history = status %s entity %q", runs[0].Status, runs[0].FailedEntity.String)
	}
}

func TestRestore_DryRunRollsBack(t *testing.T) {
	db := setupTestDB(t)
	e := NewEngine(db.Sqlx(), WithHistory(db))

	res := mustRestore(t, e, exampleBackup(), Options{DryRun: true})
	assertStats(t, res.Stats, map[string]int{"users": 1, "cohorts": 1, "students": 1})
	if !res.DryRun {
		t.Error("DryRun = false")
	}
	for table, n := range rowCounts(t, db) {
		if n != 0 {
			t.Errorf("dry run left %d rows in %s", n, table)
		}
	}
	runs, err := db.ListRestoreRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRestoreRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Status != database.RestoreStatusDryRun || !runs[0].DryRun {
		t.Errorf("history = %+v, want one dry run", runs)
	}
}

func TestRestore_SkipOptions(t *testing.T) {
	db := setupTestDB(t)
	e := NewEngine(db.Sqlx())

	res := mustRestore(t, e, fullBackup(), Options{
		SkipGrades:       true,
		SkipQuizAttempts: true,
		SkipLessonNotes:  true,
		SkipPDFResources: true,
	})
	for _, entity := range []string{"grades", "gradeCriteria", "quizAttempts", "lessonNotes", "pdfResources"} {
		if _, ok := res.Stats[entity]; ok {
			t.Errorf("skipped entity %s appears in stats %v", entity, res.Stats)
		}
	}
	counts := rowCounts(t, db)
	for _, table := range []string{"grades", "grade_criteria", "quiz_attempts", "lesson_notes", "pdf_resources"} {
		if counts[table] != 0 {
			t.Errorf("%s has %d rows, want 0", table, counts[table])
		}
	}
	// the audit log survives with its grade reference nulled
	if counts["assessment_audit_logs"] != 1 {
		t.Errorf("assessment_audit_logs has %d rows, want 1", counts["assessment_audit_logs"])
	}
	assertNoDanglingReferences(t, db)
}

func TestRestore_SkipUsersMatchesExisting(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	if _, err := db.Sqlx().ExecContext(ctx,
		`INSERT INTO users (id, email, name, role, created_at) VALUES ('live-a', 'A@X.com', 'Ada', 'student', ?)`,
		fixtureTime); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	e := NewEngine(db.Sqlx())

	doc := exampleBackup()
	doc.Data.Users = append(doc.Data.Users, User{ID: "2", Email: "new@x.com"})
	doc.Data.Students = append(doc.Data.Students, Student{ID: "4", UserID: "2", RegistrationNumber: "REG-2"})

	res := mustRestore(t, e, doc, Options{SkipUsers: true})
	users := res.Details[EntityUsers]
	if users.Created != 0 || users.Matched != 1 || users.Skipped != 1 {
		t.Errorf("users = %+v, want 1 matched (case-insensitive) and 1 skipped", users)
	}
	students := res.Details[EntityStudents]
	if students.Created != 1 || students.Dropped != 1 {
		t.Errorf("students = %+v, want 1 created and 1 dropped", students)
	}
	var userID string
	if err := db.Sqlx().GetContext(ctx, &userID, `SELECT user_id FROM students`); err != nil {
		t.Fatalf("select student: %v", err)
	}
	if userID != "live-a" {
		t.Errorf("student user_id = %q, want live-a", userID)
	}
}

func TestRestore_MixedEncoding(t *testing.T) {
	db := setupTestDB(t)
	e := NewEngine(db.Sqlx())

	doc := fullBackup()
	// a flat lesson under the nested course, plus the nested lesson again
	doc.Data.Lessons = []Lesson{
		{ID: "l1", CourseID: "c1", LessonNumber: 1, Title: "Hello"},
		{ID: "l2", CourseID: "c1", LessonNumber: 2, Title: "Types"},
	}
	doc.Data.Exercises = []Exercise{{ID: "e2", LessonID: "l2", Title: "Declare a struct"}}

	res := mustRestore(t, e, doc, Options{})
	if res.Encoding != EncodingMixed {
		t.Errorf("Encoding = %s, want mixed", res.Encoding)
	}
	if res.Stats["lessons"] != 2 || res.Stats["exercises"] != 2 {
		t.Errorf("stats = %v, want 2 lessons and 2 exercises", res.Stats)
	}
	if counts := rowCounts(t, db); counts["lessons"] != 2 || counts["courses"] != 1 {
		t.Errorf("lessons=%d courses=%d, want 2 and 1", counts["lessons"], counts["courses"])
	}
}

func TestRestore_ClearExisting(t *testing.T) {
	for _, driver := range []string{database.DriverDuckDB, database.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			for name, newDoc := range map[string]func() *Document{"example": exampleBackup, "full": fullBackup} {
				t.Run(name, func(t *testing.T) {
					db := setupTestStore(t, driver)
					e := NewEngine(db.Sqlx())

					first := mustRestore(t, e, newDoc(), Options{})
					before := rowCounts(t, db)

					res := mustRestore(t, e, newDoc(), Options{ClearExisting: true})
					for entity, n := range first.Stats {
						if res.Stats[entity] != n {
							t.Errorf("stats[%s] after clear = %d, want %d created again", entity, res.Stats[entity], n)
						}
					}
					after := rowCounts(t, db)
					for table, n := range before {
						if after[table] != n {
							t.Errorf("%s: %d rows before, %d after clear and restore", table, n, after[table])
						}
					}
					assertNoDanglingReferences(t, db)
				})
			}
		})
	}
}

func TestRestore_ClearExistingRollsBack(t *testing.T) {
	for _, driver := range []string{database.DriverDuckDB, database.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			db := setupTestStore(t, driver)
			e := NewEngine(db.Sqlx())

			mustRestore(t, e, exampleBackup(), Options{})

			bad := fullBackup()
			bad.Data.Grades[0].Score = -5
			if _, err := e.Restore(context.Background(), bad, Options{ClearExisting: true}); err == nil {
				t.Fatal("Restore() with a negative score succeeded")
			}
			counts := rowCounts(t, db)
			if counts["users"] != 1 || counts["students"] != 1 {
				t.Errorf("cleared data was not restored by the rollback: %v", counts)
			}
		})
	}
}

func TestRestore_RecordsHistoryAndActor(t *testing.T) {
	db := setupTestDB(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := NewEngine(db.Sqlx(), WithHistory(db), WithClock(func() time.Time { return fixed }))

	ctx := ContextWithActor(context.Background(), "admin")
	res, err := e.Restore(ctx, exampleBackup(), Options{})
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	runs, err := db.ListRestoreRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRestoreRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != res.RunID || run.Status != database.RestoreStatusCommitted {
		t.Errorf("run = %+v", run)
	}
	if run.Actor.String != "admin" || run.Mode.String != "full" || run.BackupVersion.String != SupportedVersion {
		t.Errorf("actor/mode/version = %q/%q/%q", run.Actor.String, run.Mode.String, run.BackupVersion.String)
	}
	if !run.StartedAt.Equal(fixed) {
		t.Errorf("StartedAt = %v, want %v", run.StartedAt, fixed)
	}
	if run.Stats.String == "" {
		t.Error("stats were not recorded")
	}
}

func TestRestore_DropsRecordsMissingRequiredFields(t *testing.T) {
	db := setupTestDB(t)
	e := NewEngine(db.Sqlx())

	doc := fullBackup()
	doc.Data.Users = append(doc.Data.Users, User{ID: "u-noemail"})
	doc.Data.ExerciseSubmissions[0].SubmittedAt = nil
	doc.Data.CoursesNested[0].Lessons = append(doc.Data.CoursesNested[0].Lessons, LessonBundle{
		Lesson:    Lesson{ID: "l0", LessonNumber: 0, Title: "Zero"},
		Exercises: []Exercise{{ID: "e0", Title: "Orphaned"}},
	})

	res := mustRestore(t, e, doc, Options{})
	if d := res.Details[EntityUsers]; d.Dropped != 1 {
		t.Errorf("users = %+v, want 1 dropped", d)
	}
	if d := res.Details[EntityExerciseSubmissions]; d.Dropped != 1 || d.Created != 0 {
		t.Errorf("submissions = %+v, want 1 dropped", d)
	}
	if d := res.Details[EntityLessons]; d.Dropped != 1 || d.Created != 1 {
		t.Errorf("lessons = %+v, want 1 created and 1 dropped", d)
	}
	if d := res.Details[EntityExercises]; d.Dropped != 1 {
		t.Errorf("exercises = %+v, want the orphaned exercise dropped", d)
	}
	// the grade loses its submission reference but is kept
	if res.Stats["grades"] != 1 {
		t.Errorf("stats.grades = %d, want 1", res.Stats["grades"])
	}
	assertNoDanglingReferences(t, db)
}

func TestRestore_NestedQuestionsWithoutPositionStayDistinct(t *testing.T) {
	for _, driver := range []string{database.DriverDuckDB, database.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			db := setupTestStore(t, driver)
			e := NewEngine(db.Sqlx())

			doc := fullBackup()
			doc.Data.CoursesNested[0].Lessons[0].QuizQuestions = []QuizQuestion{
				{ID: "q1", Prompt: "first"},
				{ID: "q2", Prompt: "second"},
				{ID: "q3", Prompt: "third"},
			}
			doc.Data.QuizAttempts[0].QuizQuestionID = "q3"

			res := mustRestore(t, e, doc, Options{})
			if got := res.Details[EntityQuizQuestions]; got.Created != 3 || got.Matched != 0 {
				t.Errorf("quizQuestions details = %+v, want 3 created", got)
			}
			if counts := rowCounts(t, db); counts["quiz_questions"] != 3 || counts["quiz_attempts"] != 1 {
				t.Errorf("quiz_questions=%d quiz_attempts=%d, want 3 and 1", counts["quiz_questions"], counts["quiz_attempts"])
			}

			var q struct {
				Prompt string `db:"prompt"`
				Order  int    `db:"question_order"`
			}
			if err := db.Sqlx().GetContext(context.Background(), &q, `
				SELECT q.prompt, q.question_order FROM quiz_attempts a
				JOIN quiz_questions q ON q.id = a.quiz_question_id`); err != nil {
				t.Fatalf("select attempt question: %v", err)
			}
			if q.Prompt != "third" || q.Order != 3 {
				t.Errorf("attempt points at (%q, %d), want (\"third\", 3)", q.Prompt, q.Order)
			}

			// the defaulted positions are stable, so a second run matches
			res = mustRestore(t, e, doc, Options{})
			if got := res.Details[EntityQuizQuestions]; got.Created != 0 || got.Matched != 3 {
				t.Errorf("second run quizQuestions details = %+v, want 3 matched", got)
			}
		})
	}
}

func TestRestore_FlatQuestionWithoutPositionIsDropped(t *testing.T) {
	db := setupTestDB(t)
	e := NewEngine(db.Sqlx())

	doc := flatten(fullBackup())
	doc.Data.QuizQuestions[0].Position = nil

	res := mustRestore(t, e, doc, Options{})
	if got := res.Details[EntityQuizQuestions]; got.Created != 0 || got.Dropped != 1 {
		t.Errorf("quizQuestions details = %+v, want 1 dropped", got)
	}
	if got := res.Details[EntityQuizAttempts]; got.Created != 0 || got.Dropped != 1 {
		t.Errorf("quizAttempts details = %+v, want 1 dropped", got)
	}
	if counts := rowCounts(t, db); counts["quiz_questions"] != 0 {
		t.Errorf("quiz_questions = %d, want 0", counts["quiz_questions"])
	}
}
