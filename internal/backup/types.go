// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// SupportedVersion is the only metadata.version the engine accepts.
const SupportedVersion = "2.0"

// ID is a backup-time identifier. Exports written by older tooling use
// numeric keys, so both JSON strings and numbers are accepted.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*id = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*id = ID(n.String())
	default:
		return fmt.Errorf("backup id must be a string or number, got %s", b)
	}
	return nil
}

// Document is a complete backup snapshot.
type Document struct {
	Metadata *Metadata `json:"metadata"`
	Data     *Data     `json:"data"`
}

// Metadata describes the export. RecordCounts is informational only.
type Metadata struct {
	Version      string         `json:"version"`
	ExportedAt   *time.Time     `json:"exportedAt,omitempty"`
	ExportedBy   string         `json:"exportedBy,omitempty"`
	RecordCounts map[string]int `json:"recordCounts,omitempty"`
}

// Data holds the records. CoursesNested, when present, is authoritative for
// the course tree; the flat arrays carry everything else.
type Data struct {
	CoursesNested []CourseBundle `json:"coursesNested,omitempty"`

	Users                  []User                  `json:"users,omitempty"`
	Cohorts                []Cohort                `json:"cohorts,omitempty"`
	Students               []Student               `json:"students,omitempty"`
	Instructors            []Instructor            `json:"instructors,omitempty"`
	AssessorAccreditations []AssessorAccreditation `json:"assessorAccreditations,omitempty"`
	UnitStandards          []UnitStandard          `json:"unitStandards,omitempty"`
	CompetencyUnits        []CompetencyUnit        `json:"competencyUnits,omitempty"`
	Rubrics                []Rubric                `json:"rubrics,omitempty"`
	RubricCriteria         []RubricCriterion       `json:"rubricCriteria,omitempty"`
	RubricLevels           []RubricLevel           `json:"rubricLevels,omitempty"`
	RubricCriteriaMappings []RubricCriteriaMapping `json:"rubricCriteriaMappings,omitempty"`
	RubricLevelMappings    []RubricLevelMapping    `json:"rubricLevelMappings,omitempty"`
	Courses                []Course                `json:"courses,omitempty"`
	CourseInstructors      []CourseInstructor      `json:"courseInstructors,omitempty"`
	Lessons                []Lesson                `json:"lessons,omitempty"`
	Exercises              []Exercise              `json:"exercises,omitempty"`
	QuizQuestions          []QuizQuestion          `json:"quizQuestions,omitempty"`
	LessonNotes            []LessonNote            `json:"lessonNotes,omitempty"`
	PDFResources           []PDFResource           `json:"pdfResources,omitempty"`
	CourseSubscriptions    []CourseSubscription    `json:"courseSubscriptions,omitempty"`
	ExerciseSubmissions    []ExerciseSubmission    `json:"exerciseSubmissions,omitempty"`
	Grades                 []Grade                 `json:"grades,omitempty"`
	GradeCriteria          []GradeCriterion        `json:"gradeCriteria,omitempty"`
	QuizAttempts           []QuizAttempt           `json:"quizAttempts,omitempty"`
	AssessmentAuditLogs    []AssessmentAuditLog    `json:"assessmentAuditLogs,omitempty"`
}

// CourseBundle is one course with its lesson tree.
type CourseBundle struct {
	Course  Course         `json:"course"`
	Lessons []LessonBundle `json:"lessons,omitempty"`
}

// LessonBundle is one lesson with the content that hangs off it.
type LessonBundle struct {
	Lesson        Lesson         `json:"lesson"`
	Exercises     []Exercise     `json:"exercises,omitempty"`
	QuizQuestions []QuizQuestion `json:"quizQuestions,omitempty"`
	LessonNotes   []LessonNote   `json:"lessonNotes,omitempty"`
	PDFResources  []PDFResource  `json:"pdfResources,omitempty"`
}

// Encoding says which parts of Data carry records.
type Encoding string

const (
	EncodingFlat   Encoding = "flat"
	EncodingNested Encoding = "nested"
	// EncodingMixed has a nested tree and flat course-tree arrays. Flat
	// records already restored through the tree are not processed again.
	EncodingMixed  Encoding = "mixed"
)

// Encoding classifies d once so restore steps do not branch on it.
func (d *Data) Encoding() Encoding {
	if len(d.CoursesNested) == 0 {
		return EncodingFlat
	}
	flatTree := len(d.Courses) + len(d.Lessons) + len(d.Exercises) + len(d.QuizQuestions) +
		len(d.LessonNotes) + len(d.PDFResources)
	if flatTree > 0 {
		return EncodingMixed
	}
	return EncodingNested
}

// Counts returns the number of records per entity type, counting nested
// records under their own type.
func (d *Data) Counts() map[EntityType]int {
	c := map[EntityType]int{
		EntityUsers:                  len(d.Users),
		EntityCohorts:                len(d.Cohorts),
		EntityStudents:               len(d.Students),
		EntityInstructors:            len(d.Instructors),
		EntityAssessorAccreditations: len(d.AssessorAccreditations),
		EntityUnitStandards:          len(d.UnitStandards),
		EntityCompetencyUnits:        len(d.CompetencyUnits),
		EntityRubrics:                len(d.Rubrics),
		EntityRubricCriteria:         len(d.RubricCriteria),
		EntityRubricLevels:           len(d.RubricLevels),
		EntityRubricCriteriaMappings: len(d.RubricCriteriaMappings),
		EntityRubricLevelMappings:    len(d.RubricLevelMappings),
		EntityCourses:                len(d.Courses) + len(d.CoursesNested),
		EntityCourseInstructors:      len(d.CourseInstructors),
		EntityLessons:                len(d.Lessons),
		EntityExercises:              len(d.Exercises),
		EntityQuizQuestions:          len(d.QuizQuestions),
		EntityLessonNotes:            len(d.LessonNotes),
		EntityPDFResources:           len(d.PDFResources),
		EntityCourseSubscriptions:    len(d.CourseSubscriptions),
		EntityExerciseSubmissions:    len(d.ExerciseSubmissions),
		EntityGrades:                 len(d.Grades),
		EntityGradeCriteria:          len(d.GradeCriteria),
		EntityQuizAttempts:           len(d.QuizAttempts),
		EntityAssessmentAuditLogs:    len(d.AssessmentAuditLogs),
	}
	for _, b := range d.CoursesNested {
		c[EntityLessons] += len(b.Lessons)
		for _, l := range b.Lessons {
			c[EntityExercises] += len(l.Exercises)
			c[EntityQuizQuestions] += len(l.QuizQuestions)
			c[EntityLessonNotes] += len(l.LessonNotes)
			c[EntityPDFResources] += len(l.PDFResources)
		}
	}
	return c
}

// HasCourse reports whether id names a course in the flat array or at the
// root of a nested bundle.
func (d *Data) HasCourse(id ID) bool {
	for _, c := range d.Courses {
		if c.ID == id {
			return true
		}
	}
	for _, b := range d.CoursesNested {
		if b.Course.ID == id {
			return true
		}
	}
	return false
}
