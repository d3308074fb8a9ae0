// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
)

// Record shapes follow the export format. Every *ID field holds a
// backup-time identifier.

// User is an account. Email is its natural key.
type User struct {
	ID           ID         `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name,omitempty"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	Role         string     `json:"role,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// Cohort is an intake group of students, identified by name.
type Cohort struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Student links a user to an optional cohort under a unique registration number.
type Student struct {
	ID                 ID         `json:"id"`
	UserID             ID         `json:"userId"`
	CohortID           ID         `json:"cohortId,omitempty"`
	RegistrationNumber string     `json:"registrationNumber"`
	EnrolledAt         *time.Time `json:"enrolledAt,omitempty"`
}

// Instructor is the teaching profile of a user. A user has at most one.
type Instructor struct {
	ID     ID     `json:"id"`
	UserID ID     `json:"userId"`
	Title  string `json:"title,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

// AssessorAccreditation is an instructor's registration with an accrediting body.
type AssessorAccreditation struct {
	ID                  ID         `json:"id"`
	InstructorID        ID         `json:"instructorId"`
	AccreditationNumber string     `json:"accreditationNumber"`
	IssuingBody         string     `json:"issuingBody,omitempty"`
	IssuedAt            *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt           *time.Time `json:"expiresAt,omitempty"`
}

// UnitStandard is a registered qualification standard, keyed by code.
type UnitStandard struct {
	ID       ID     `json:"id"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	NQFLevel *int   `json:"nqfLevel,omitempty"`
	Credits  *int   `json:"credits,omitempty"`
}

// CompetencyUnit is an assessable outcome within a unit standard.
type CompetencyUnit struct {
	ID             ID     `json:"id"`
	UnitStandardID ID     `json:"unitStandardId"`
	Code           string `json:"code"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
}

// Rubric is a grading scheme, identified by title.
type Rubric struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedByID ID         `json:"createdById,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// RubricCriterion is one graded dimension of a rubric.
type RubricCriterion struct {
	ID          ID       `json:"id"`
	RubricID    ID       `json:"rubricId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	SortOrder   *int     `json:"sortOrder,omitempty"`
}

// RubricLevel is a scored achievement level of a criterion.
type RubricLevel struct {
	ID          ID      `json:"id"`
	CriterionID ID      `json:"criterionId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Points      float64 `json:"points"`
}

// RubricCriteriaMapping ties a criterion to the unit standard it assesses.
type RubricCriteriaMapping struct {
	ID             ID `json:"id,omitempty"`
	CriterionID    ID `json:"criterionId"`
	UnitStandardID ID `json:"unitStandardId"`
}

// RubricLevelMapping ties a level to the competency unit it evidences.
type RubricLevelMapping struct {
	ID               ID `json:"id,omitempty"`
	LevelID          ID `json:"levelId"`
	CompetencyUnitID ID `json:"competencyUnitId"`
}

// Course is the root of the curriculum tree, identified by title.
type Course struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedByID ID         `json:"createdById,omitempty"`
	Published   bool       `json:"published,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// CourseInstructor assigns an instructor to a course.
type CourseInstructor struct {
	ID           ID     `json:"id,omitempty"`
	CourseID     ID     `json:"courseId"`
	InstructorID ID     `json:"instructorId"`
	Role         string `json:"role,omitempty"`
}

// Lesson belongs to a course. (course, LessonNumber) is its natural key.
type Lesson struct {
	ID           ID     `json:"id"`
	CourseID     ID     `json:"courseId,omitempty"`
	LessonNumber int    `json:"lessonNumber"`
	Title        string `json:"title"`
	Content      string `json:"content,omitempty"`
}

// Exercise is graded work attached to a lesson.
type Exercise struct {
	ID               ID       `json:"id"`
	LessonID         ID       `json:"lessonId,omitempty"`
	Title            string   `json:"title"`
	Instructions     string   `json:"instructions,omitempty"`
	RubricID         ID       `json:"rubricId,omitempty"`
	CompetencyUnitID ID       `json:"competencyUnitId,omitempty"`
	MaxScore         *float64 `json:"maxScore,omitempty"`
}

// QuizQuestion is a lesson question. Position orders it within the lesson
// and identifies it there; nil means the export omitted it.
type QuizQuestion struct {
	ID       ID       `json:"id"`
	LessonID ID       `json:"lessonId,omitempty"`
	Position *int     `json:"position,omitempty"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Points   *float64 `json:"points,omitempty"`
}

// LessonNote is reading material attached to a lesson.
type LessonNote struct {
	ID       ID     `json:"id,omitempty"`
	LessonID ID     `json:"lessonId,omitempty"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
}

// PDFResource is a downloadable file attached to a lesson.
type PDFResource struct {
	ID       ID     `json:"id,omitempty"`
	LessonID ID     `json:"lessonId,omitempty"`
	Title    string `json:"title,omitempty"`
	FileURL  string `json:"fileUrl"`
}

// CourseSubscription enrols a student in a course.
type CourseSubscription struct {
	ID           ID         `json:"id,omitempty"`
	CourseID     ID         `json:"courseId"`
	StudentID    ID         `json:"studentId"`
	SubscribedAt *time.Time `json:"subscribedAt,omitempty"`
}

// ExerciseSubmission is a student's answer to an exercise.
type ExerciseSubmission struct {
	ID          ID         `json:"id"`
	ExerciseID  ID         `json:"exerciseId"`
	StudentID   ID         `json:"studentId"`
	Content     string     `json:"content,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// Grade is an instructor's mark for a student on an exercise.
type Grade struct {
	ID           ID         `json:"id"`
	StudentID    ID         `json:"studentId"`
	ExerciseID   ID         `json:"exerciseId"`
	SubmissionID ID         `json:"submissionId,omitempty"`
	GradedByID   ID         `json:"gradedById,omitempty"`
	Score        float64    `json:"score"`
	Feedback     string     `json:"feedback,omitempty"`
	GradedAt     *time.Time `json:"gradedAt,omitempty"`
}

// GradeCriterion is the per-criterion breakdown of a grade.
type GradeCriterion struct {
	ID          ID       `json:"id,omitempty"`
	GradeID     ID       `json:"gradeId"`
	CriterionID ID       `json:"criterionId"`
	LevelID     ID       `json:"levelId,omitempty"`
	Points      *float64 `json:"points,omitempty"`
	Comment     string   `json:"comment,omitempty"`
}

// QuizAttempt is a student's answer to a quiz question.
type QuizAttempt struct {
	ID             ID         `json:"id,omitempty"`
	QuizQuestionID ID         `json:"quizQuestionId"`
	StudentID      ID         `json:"studentId"`
	Answer         string     `json:"answer,omitempty"`
	Correct        *bool      `json:"correct,omitempty"`
	AttemptedAt    *time.Time `json:"attemptedAt,omitempty"`
}

// AssessmentAuditLog records an action taken on a grade.
type AssessmentAuditLog struct {
	ID        ID              `json:"id,omitempty"`
	GradeID   ID              `json:"gradeId,omitempty"`
	ActorID   ID              `json:"actorId,omitempty"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
}

// detailsText returns Details as stored text: a JSON string is unquoted,
// any other JSON value is kept verbatim.
func (a *AssessmentAuditLog) detailsText() string {
	raw := bytes.TrimSpace(a.Details)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
