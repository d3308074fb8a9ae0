// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// The restoreXxx step functions below walk the flat arrays. The per-record
// functions (restoreCourse, restoreLesson, restoreExercise, ...) are shared
// with the nested tree walk, which supplies the live parent id itself.

func restoreCourses(ctx context.Context, r *run, d *Data) error {
	for _, c := range d.Courses {
		if !r.scope.allows(EntityCourses, c.ID) {
			continue
		}
		if err := restoreCourse(ctx, r, c); err != nil {
			return err
		}
	}
	return nil
}

// restoreCourse matches a course by title, oldest first, or creates it.
func restoreCourse(ctx context.Context, r *run, c Course) error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		r.drop(EntityCourses, c.ID, "missing title")
		return nil
	}
	return r.restore(ctx, record{
		entity:   EntityCourses,
		backupID: c.ID,
		row: row{
			table: "courses",
			cols:  []string{"title", "description", "created_by_id", "published", "created_at"},
			vals: []any{title, nullString(c.Description), r.optionalRef(EntityUsers, c.CreatedByID),
				c.Published, timeOr(c.CreatedAt, r.now)},
		},
		natural: &key{`SELECT id FROM courses WHERE title = ? ORDER BY created_at, id LIMIT 1`, []any{title}},
	})
}

func restoreCourseInstructors(ctx context.Context, r *run, d *Data) error {
	for _, ci := range d.CourseInstructors {
		courseID, ok := r.ref(EntityCourses, ci.CourseID)
		if !ok {
			r.drop(EntityCourseInstructors, ci.ID, "unresolved courseId")
			continue
		}
		instructorID, ok := r.ref(EntityInstructors, ci.InstructorID)
		if !ok {
			r.drop(EntityCourseInstructors, ci.ID, "unresolved instructorId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityCourseInstructors,
			backupID: ci.ID,
			row: row{
				table: "course_instructors",
				cols:  []string{"course_id", "instructor_id", "role"},
				vals:  []any{courseID, instructorID, nullString(ci.Role)},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreLessons(ctx context.Context, r *run, d *Data) error {
	for _, l := range d.Lessons {
		if !r.scope.allows(EntityLessons, l.ID) {
			continue
		}
		courseID, ok := r.ref(EntityCourses, l.CourseID)
		if !ok {
			r.drop(EntityLessons, l.ID, "unresolved courseId")
			continue
		}
		if err := restoreLesson(ctx, r, l, courseID); err != nil {
			return err
		}
	}
	return nil
}

// restoreLesson matches or creates l under the live course courseID. In a
// scoped restore courseID is the destination course.
func restoreLesson(ctx context.Context, r *run, l Lesson, courseID string) error {
	if l.LessonNumber <= 0 {
		r.drop(EntityLessons, l.ID, "lessonNumber must be positive")
		return nil
	}
	return r.restore(ctx, record{
		entity:   EntityLessons,
		backupID: l.ID,
		row: row{
			table: "lessons",
			cols:  []string{"course_id", "lesson_number", "title", "content"},
			vals:  []any{courseID, l.LessonNumber, l.Title, nullString(l.Content)},
		},
		natural: &key{`SELECT id FROM lessons WHERE course_id = ? AND lesson_number = ?`, []any{courseID, l.LessonNumber}},
	})
}

// lessonContent resolves the live lesson for a flat lesson-content record.
// Records outside a scoped restore's lessons are ignored rather than dropped.
func (r *run) lessonContent(entity EntityType, backupID, lessonID ID) (string, bool) {
	if !r.scope.allows(EntityLessons, lessonID) {
		return "", false
	}
	live, ok := r.ref(EntityLessons, lessonID)
	if !ok {
		r.drop(entity, backupID, "unresolved lessonId")
	}
	return live, ok
}

func restoreExercises(ctx context.Context, r *run, d *Data) error {
	for _, e := range d.Exercises {
		lessonID, ok := r.lessonContent(EntityExercises, e.ID, e.LessonID)
		if !ok {
			continue
		}
		if err := restoreExercise(ctx, r, e, lessonID); err != nil {
			return err
		}
	}
	return nil
}

func restoreExercise(ctx context.Context, r *run, e Exercise, lessonID string) error {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		r.drop(EntityExercises, e.ID, "missing title")
		return nil
	}
	return r.restore(ctx, record{
		entity:   EntityExercises,
		backupID: e.ID,
		row: row{
			table: "exercises",
			cols:  []string{"lesson_id", "title", "instructions", "rubric_id", "competency_unit_id", "max_score"},
			vals: []any{lessonID, title, nullString(e.Instructions),
				r.optionalRef(EntityRubrics, e.RubricID), r.optionalRef(EntityCompetencyUnits, e.CompetencyUnitID),
				nullFloat(e.MaxScore)},
		},
		conflict: &key{`SELECT id FROM exercises WHERE lesson_id = ? AND title = ?`, []any{lessonID, title}},
	})
}

func restoreQuizQuestions(ctx context.Context, r *run, d *Data) error {
	for _, q := range d.QuizQuestions {
		lessonID, ok := r.lessonContent(EntityQuizQuestions, q.ID, q.LessonID)
		if !ok {
			continue
		}
		if q.Position == nil {
			r.drop(EntityQuizQuestions, q.ID, "missing position")
			continue
		}
		if err := restoreQuizQuestion(ctx, r, q, lessonID); err != nil {
			return err
		}
	}
	return nil
}

// restoreQuizQuestion creates q under lessonID. q.Position must be set; it
// is the question's identity within the lesson.
func restoreQuizQuestion(ctx context.Context, r *run, q QuizQuestion, lessonID string) error {
	if strings.TrimSpace(q.Prompt) == "" {
		r.drop(EntityQuizQuestions, q.ID, "missing prompt")
		return nil
	}
	var options any
	if len(q.Options) > 0 {
		b, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode quiz options: %w", err)
		}
		options = string(b)
	}
	return r.restore(ctx, record{
		entity:   EntityQuizQuestions,
		backupID: q.ID,
		row: row{
			table: "quiz_questions",
			cols:  []string{"lesson_id", "question_order", "prompt", "options", "answer", "points"},
			vals:  []any{lessonID, *q.Position, q.Prompt, options, nullString(q.Answer), nullFloat(q.Points)},
		},
		conflict: &key{`SELECT id FROM quiz_questions WHERE lesson_id = ? AND question_order = ?`, []any{lessonID, *q.Position}},
	})
}

func restoreLessonNotes(ctx context.Context, r *run, d *Data) error {
	for _, n := range d.LessonNotes {
		lessonID, ok := r.lessonContent(EntityLessonNotes, n.ID, n.LessonID)
		if !ok {
			continue
		}
		if err := restoreLessonNote(ctx, r, n, lessonID); err != nil {
			return err
		}
	}
	return nil
}

func restoreLessonNote(ctx context.Context, r *run, n LessonNote, lessonID string) error {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		r.drop(EntityLessonNotes, n.ID, "missing title")
		return nil
	}
	return r.restore(ctx, record{
		entity:   EntityLessonNotes,
		backupID: n.ID,
		row: row{
			table: "lesson_notes",
			cols:  []string{"lesson_id", "title", "body"},
			vals:  []any{lessonID, title, nullString(n.Body)},
		},
		conflict: &key{`SELECT id FROM lesson_notes WHERE lesson_id = ? AND title = ?`, []any{lessonID, title}},
	})
}

func restorePDFResources(ctx context.Context, r *run, d *Data) error {
	for _, p := range d.PDFResources {
		lessonID, ok := r.lessonContent(EntityPDFResources, p.ID, p.LessonID)
		if !ok {
			continue
		}
		if err := restorePDFResource(ctx, r, p, lessonID); err != nil {
			return err
		}
	}
	return nil
}

func restorePDFResource(ctx context.Context, r *run, p PDFResource, lessonID string) error {
	url := strings.TrimSpace(p.FileURL)
	if url == "" {
		r.drop(EntityPDFResources, p.ID, "missing fileUrl")
		return nil
	}
	return r.restore(ctx, record{
		entity:   EntityPDFResources,
		backupID: p.ID,
		row: row{
			table: "pdf_resources",
			cols:  []string{"lesson_id", "title", "file_url"},
			vals:  []any{lessonID, nullString(p.Title), url},
		},
		conflict: &key{`SELECT id FROM pdf_resources WHERE lesson_id = ? AND file_url = ?`, []any{lessonID, url}},
	})
}
