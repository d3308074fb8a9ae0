// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Student history. These steps only run in a full restore.

func restoreCourseSubscriptions(ctx context.Context, r *run, d *Data) error {
	for _, s := range d.CourseSubscriptions {
		courseID, ok := r.ref(EntityCourses, s.CourseID)
		if !ok {
			r.drop(EntityCourseSubscriptions, s.ID, "unresolved courseId")
			continue
		}
		studentID, ok := r.ref(EntityStudents, s.StudentID)
		if !ok {
			r.drop(EntityCourseSubscriptions, s.ID, "unresolved studentId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityCourseSubscriptions,
			backupID: s.ID,
			row: row{
				table: "course_subscriptions",
				cols:  []string{"course_id", "student_id", "subscribed_at"},
				vals:  []any{courseID, studentID, nullTime(s.SubscribedAt)},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreSubmissions(ctx context.Context, r *run, d *Data) error {
	for _, s := range d.ExerciseSubmissions {
		if s.SubmittedAt == nil || s.SubmittedAt.IsZero() {
			r.drop(EntityExerciseSubmissions, s.ID, "missing submittedAt")
			continue
		}
		exerciseID, ok := r.ref(EntityExercises, s.ExerciseID)
		if !ok {
			r.drop(EntityExerciseSubmissions, s.ID, "unresolved exerciseId")
			continue
		}
		studentID, ok := r.ref(EntityStudents, s.StudentID)
		if !ok {
			r.drop(EntityExerciseSubmissions, s.ID, "unresolved studentId")
			continue
		}
		submitted := storeTime(*s.SubmittedAt)
		err := r.restore(ctx, record{
			entity:   EntityExerciseSubmissions,
			backupID: s.ID,
			row: row{
				table: "exercise_submissions",
				cols:  []string{"exercise_id", "student_id", "content", "submitted_at"},
				vals:  []any{exerciseID, studentID, nullString(s.Content), submitted},
			},
			conflict: &key{
				`SELECT id FROM exercise_submissions WHERE exercise_id = ? AND student_id = ? AND submitted_at = ?`,
				[]any{exerciseID, studentID, submitted},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreGrades(ctx context.Context, r *run, d *Data) error {
	for _, g := range d.Grades {
		studentID, ok := r.ref(EntityStudents, g.StudentID)
		if !ok {
			r.drop(EntityGrades, g.ID, "unresolved studentId")
			continue
		}
		exerciseID, ok := r.ref(EntityExercises, g.ExerciseID)
		if !ok {
			r.drop(EntityGrades, g.ID, "unresolved exerciseId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityGrades,
			backupID: g.ID,
			row: row{
				table: "grades",
				cols: []string{"student_id", "exercise_id", "submission_id", "graded_by_id",
					"score", "feedback", "graded_at"},
				vals: []any{studentID, exerciseID,
					r.optionalRef(EntityExerciseSubmissions, g.SubmissionID), r.optionalRef(EntityInstructors, g.GradedByID),
					g.Score, nullString(g.Feedback), nullTime(g.GradedAt)},
			},
			conflict: &key{`SELECT id FROM grades WHERE student_id = ? AND exercise_id = ?`, []any{studentID, exerciseID}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreGradeCriteria(ctx context.Context, r *run, d *Data) error {
	for _, gc := range d.GradeCriteria {
		gradeID, ok := r.ref(EntityGrades, gc.GradeID)
		if !ok {
			r.drop(EntityGradeCriteria, gc.ID, "unresolved gradeId")
			continue
		}
		criterionID, ok := r.ref(EntityRubricCriteria, gc.CriterionID)
		if !ok {
			r.drop(EntityGradeCriteria, gc.ID, "unresolved criterionId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityGradeCriteria,
			backupID: gc.ID,
			row: row{
				table: "grade_criteria",
				cols:  []string{"grade_id", "criterion_id", "level_id", "points", "comment"},
				vals: []any{gradeID, criterionID, r.optionalRef(EntityRubricLevels, gc.LevelID),
					nullFloat(gc.Points), nullString(gc.Comment)},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreQuizAttempts(ctx context.Context, r *run, d *Data) error {
	for _, a := range d.QuizAttempts {
		if a.AttemptedAt == nil || a.AttemptedAt.IsZero() {
			r.drop(EntityQuizAttempts, a.ID, "missing attemptedAt")
			continue
		}
		questionID, ok := r.ref(EntityQuizQuestions, a.QuizQuestionID)
		if !ok {
			r.drop(EntityQuizAttempts, a.ID, "unresolved quizQuestionId")
			continue
		}
		studentID, ok := r.ref(EntityStudents, a.StudentID)
		if !ok {
			r.drop(EntityQuizAttempts, a.ID, "unresolved studentId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityQuizAttempts,
			backupID: a.ID,
			row: row{
				table: "quiz_attempts",
				cols:  []string{"quiz_question_id", "student_id", "answer", "correct", "attempted_at"},
				vals: []any{questionID, studentID, nullString(a.Answer), nullBool(a.Correct),
					storeTime(*a.AttemptedAt)},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreAuditLogs(ctx context.Context, r *run, d *Data) error {
	for _, a := range d.AssessmentAuditLogs {
		action := strings.TrimSpace(a.Action)
		if action == "" {
			r.drop(EntityAssessmentAuditLogs, a.ID, "missing action")
			continue
		}
		if a.CreatedAt == nil || a.CreatedAt.IsZero() {
			r.drop(EntityAssessmentAuditLogs, a.ID, "missing createdAt")
			continue
		}
		gradeID := r.optionalRef(EntityGrades, a.GradeID)
		actorID := r.optionalRef(EntityUsers, a.ActorID)
		details := a.detailsText()
		created := storeTime(*a.CreatedAt)
		err := r.restore(ctx, record{
			entity:   EntityAssessmentAuditLogs,
			backupID: a.ID,
			row: row{
				table: "assessment_audit_logs",
				cols:  []string{"grade_id", "actor_id", "action", "details", "created_at", "fingerprint"},
				vals: []any{gradeID, actorID, action, nullString(details), created,
					auditFingerprint(gradeID, actorID, action, details, created)},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// auditFingerprint identifies an audit entry by its live content. Restoring
// the same entry twice yields the same fingerprint and the second insert
// conflicts.
func auditFingerprint(gradeID, actorID any, action, details string, created time.Time) string {
	str := func(v any) string {
		if s, ok := v.(string); ok {
			return s
		}
		return ""
	}
	h := sha256.New()
	for _, part := range []string{
		str(gradeID), str(actorID), action, details,
		strconv.FormatInt(created.UnixMicro(), 10),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
