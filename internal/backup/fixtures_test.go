// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/classroom/internal/config"
	"github.com/tomtom215/classroom/internal/database"
)

// DuckDB CGO calls misbehave under heavy parallel load, so store-backed
// tests run one at a time.
var testDBMutex sync.Mutex

func setupTestStore(t *testing.T, driver string) *database.DB {
	t.Helper()
	testDBMutex.Lock()
	t.Cleanup(testDBMutex.Unlock)

	type result struct {
		db  *database.DB
		err error
	}
	ch := make(chan result, 1)
	go func() {
		db, err := database.New(&config.DatabaseConfig{Driver: driver, Path: ":memory:", MaxMemory: "512MB", Threads: 1})
		ch <- result{db, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() { _ = res.db.Close() })
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatal("Timed out creating test database")
		return nil
	}
}

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	return setupTestStore(t, database.DriverDuckDB)
}

var fixtureTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := fixtureTime.Add(d)
	return &t
}

func ptr[T any](v T) *T { return &v }

func metadata() *Metadata {
	return &Metadata{
		Version:    SupportedVersion,
		ExportedAt: at(0),
		ExportedBy: "admin@example.com",
	}
}

// exampleBackup is one user, one cohort and one student referencing both.
func exampleBackup() *Document {
	return &Document{
		Metadata: metadata(),
		Data: &Data{
			Users:    []User{{ID: "1", Email: "a@x.com", Name: "Ada"}},
			Cohorts:  []Cohort{{ID: "7", Name: "2024"}},
			Students: []Student{{ID: "3", UserID: "1", CohortID: "7", RegistrationNumber: "REG-1"}},
		},
	}
}

// fullBackup has one record of every entity type, with the course tree in
// nested form.
func fullBackup() *Document {
	return &Document{
		Metadata: metadata(),
		Data: &Data{
			Users: []User{
				{ID: "u1", Email: "tutor@x.com", Name: "Tess", Role: "instructor"},
				{ID: "u2", Email: "student@x.com", Name: "Sam"},
			},
			Cohorts:                []Cohort{{ID: "co1", Name: "2024 intake", StartDate: at(0)}},
			Students:               []Student{{ID: "s1", UserID: "u2", CohortID: "co1", RegistrationNumber: "REG-1"}},
			Instructors:            []Instructor{{ID: "i1", UserID: "u1", Title: "Lecturer"}},
			AssessorAccreditations: []AssessorAccreditation{{ID: "ac1", InstructorID: "i1", AccreditationNumber: "ACC-1"}},
			UnitStandards:          []UnitStandard{{ID: "us1", Code: "US-100", Title: "Programming", Credits: ptr(12)}},
			CompetencyUnits:        []CompetencyUnit{{ID: "cu1", UnitStandardID: "us1", Code: "CU-1", Title: "Variables"}},
			Rubrics:                []Rubric{{ID: "rb1", Title: "Essay rubric", CreatedByID: "u1"}},
			RubricCriteria:         []RubricCriterion{{ID: "rc1", RubricID: "rb1", Title: "Structure", Weight: ptr(1.0)}},
			RubricLevels:           []RubricLevel{{ID: "rl1", CriterionID: "rc1", Title: "Good", Points: 3}},
			RubricCriteriaMappings: []RubricCriteriaMapping{{ID: "rcm1", CriterionID: "rc1", UnitStandardID: "us1"}},
			RubricLevelMappings:    []RubricLevelMapping{{ID: "rlm1", LevelID: "rl1", CompetencyUnitID: "cu1"}},
			CoursesNested: []CourseBundle{{
				Course: Course{ID: "c1", Title: "Intro to Go", CreatedByID: "u1", Published: true},
				Lessons: []LessonBundle{{
					Lesson: Lesson{ID: "l1", LessonNumber: 1, Title: "Hello"},
					Exercises: []Exercise{{
						ID: "e1", Title: "Write hello world", RubricID: "rb1", CompetencyUnitID: "cu1", MaxScore: ptr(10.0),
					}},
					QuizQuestions: []QuizQuestion{{ID: "q1", Position: ptr(1), Prompt: "What prints?", Options: []string{"a", "b"}, Answer: "a"}},
					LessonNotes:   []LessonNote{{ID: "n1", Title: "Setup", Body: "Install Go"}},
					PDFResources:  []PDFResource{{ID: "p1", Title: "Slides", FileURL: "/files/hello.pdf"}},
				}},
			}},
			CourseInstructors:   []CourseInstructor{{ID: "ci1", CourseID: "c1", InstructorID: "i1", Role: "lead"}},
			CourseSubscriptions: []CourseSubscription{{ID: "cs1", CourseID: "c1", StudentID: "s1", SubscribedAt: at(time.Hour)}},
			ExerciseSubmissions: []ExerciseSubmission{{ID: "sub1", ExerciseID: "e1", StudentID: "s1", Content: "fmt.Println", SubmittedAt: at(2 * time.Hour)}},
			Grades: []Grade{{
				ID: "g1", StudentID: "s1", ExerciseID: "e1", SubmissionID: "sub1", GradedByID: "i1", Score: 8, GradedAt: at(3 * time.Hour),
			}},
			GradeCriteria: []GradeCriterion{{ID: "gc1", GradeID: "g1", CriterionID: "rc1", LevelID: "rl1", Points: ptr(3.0)}},
			QuizAttempts:  []QuizAttempt{{ID: "qa1", QuizQuestionID: "q1", StudentID: "s1", Answer: "a", Correct: ptr(true), AttemptedAt: at(4 * time.Hour)}},
			AssessmentAuditLogs: []AssessmentAuditLog{{
				ID: "al1", GradeID: "g1", ActorID: "u1", Action: "graded", Details: []byte(`{"score":8}`), CreatedAt: at(3 * time.Hour),
			}},
		},
	}
}

// flatten moves the nested course tree of doc into the flat arrays.
func flatten(doc *Document) *Document {
	d := doc.Data
	for _, b := range d.CoursesNested {
		d.Courses = append(d.Courses, b.Course)
		for _, l := range b.Lessons {
			lesson := l.Lesson
			lesson.CourseID = b.Course.ID
			d.Lessons = append(d.Lessons, lesson)
			for _, e := range l.Exercises {
				e.LessonID = lesson.ID
				d.Exercises = append(d.Exercises, e)
			}
			for _, q := range l.QuizQuestions {
				q.LessonID = lesson.ID
				d.QuizQuestions = append(d.QuizQuestions, q)
			}
			for _, n := range l.LessonNotes {
				n.LessonID = lesson.ID
				d.LessonNotes = append(d.LessonNotes, n)
			}
			for _, p := range l.PDFResources {
				p.LessonID = lesson.ID
				d.PDFResources = append(d.PDFResources, p)
			}
		}
	}
	d.CoursesNested = nil
	return doc
}

func rowCounts(t *testing.T, db *database.DB) map[string]int64 {
	t.Helper()
	counts, err := db.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	out := make(map[string]int64, len(counts))
	for _, c := range counts {
		out[c.Table] = c.Rows
	}
	return out
}

func mustRestore(t *testing.T, e *Engine, doc *Document, opts Options) *Result {
	t.Helper()
	res, err := e.Restore(context.Background(), doc, opts)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !res.Success {
		t.Fatal("Restore() Success = false")
	}
	return res
}

func assertStats(t *testing.T, got Stats, want map[string]int) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("stats = %v, want %v", got, want)
		return
	}
	for k, v := range want {
		if n, ok := got[k]; !ok || n != v {
			t.Errorf("stats[%s] = %d (present %v), want %d; all stats = %v", k, n, ok, v, got)
		}
	}
}
