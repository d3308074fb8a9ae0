// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import "context"

// mapCourseTargets seeds the course remap table for scoped and merge
// restores. No course row is created or matched: the backup course ids are
// pointed straight at the destination.
func mapCourseTargets(_ context.Context, r *run, d *Data) error {
	dest := r.opts.RestoreToCourseID
	switch r.mode {
	case ModeScoped:
		r.remap.Set(EntityCourses, r.opts.SourceCourseID, dest)
	case ModeMerge:
		for _, c := range d.Courses {
			r.remap.Set(EntityCourses, c.ID, dest)
		}
		for _, b := range d.CoursesNested {
			r.remap.Set(EntityCourses, b.Course.ID, dest)
		}
	}
	return nil
}

// restoreNested walks data.coursesNested: course, then each lesson keyed by
// (course, lessonNumber), then the lesson's content under the live lesson.
// Errors are reported under the entity type of the record being written.
func restoreNested(ctx context.Context, r *run, d *Data) error {
	for _, b := range d.CoursesNested {
		if !r.scope.allows(EntityCourses, b.Course.ID) {
			continue
		}

		if !r.remap.Has(EntityCourses, b.Course.ID) && r.mode == ModeFull {
			if err := restoreCourse(ctx, r, b.Course); err != nil {
				return &StepError{Entity: EntityCourses, Err: err}
			}
		}
		courseID, ok := r.ref(EntityCourses, b.Course.ID)
		if !ok {
			for _, l := range b.Lessons {
				r.drop(EntityLessons, l.Lesson.ID, "unresolved course")
				r.dropLessonContent(l)
			}
			continue
		}

		for _, l := range b.Lessons {
			if err := restoreLessonBundle(ctx, r, l, courseID); err != nil {
				return err
			}
		}
	}
	return nil
}

func restoreLessonBundle(ctx context.Context, r *run, l LessonBundle, courseID string) error {
	if err := restoreLesson(ctx, r, l.Lesson, courseID); err != nil {
		return &StepError{Entity: EntityLessons, Err: err}
	}
	lessonID, ok := r.ref(EntityLessons, l.Lesson.ID)
	if !ok {
		r.dropLessonContent(l)
		return nil
	}

	if !r.opts.SkipExercises {
		for _, e := range l.Exercises {
			if err := restoreExercise(ctx, r, e, lessonID); err != nil {
				return &StepError{Entity: EntityExercises, Err: err}
			}
		}
	}
	if !r.opts.SkipQuizQuestions {
		for i, q := range l.QuizQuestions {
			if q.Position == nil {
				// Nested questions are exported in order.
				pos := i + 1
				q.Position = &pos
			}
			if err := restoreQuizQuestion(ctx, r, q, lessonID); err != nil {
				return &StepError{Entity: EntityQuizQuestions, Err: err}
			}
		}
	}
	if !r.opts.SkipLessonNotes {
		for _, n := range l.LessonNotes {
			if err := restoreLessonNote(ctx, r, n, lessonID); err != nil {
				return &StepError{Entity: EntityLessonNotes, Err: err}
			}
		}
	}
	if !r.opts.SkipPDFResources {
		for _, p := range l.PDFResources {
			if err := restorePDFResource(ctx, r, p, lessonID); err != nil {
				return &StepError{Entity: EntityPDFResources, Err: err}
			}
		}
	}
	return nil
}

// dropLessonContent counts the content of a lesson that could not be
// resolved. Skipped entity types are not counted.
func (r *run) dropLessonContent(l LessonBundle) {
	const reason = "unresolved lesson"
	if !r.opts.SkipExercises {
		for _, e := range l.Exercises {
			r.drop(EntityExercises, e.ID, reason)
		}
	}
	if !r.opts.SkipQuizQuestions {
		for _, q := range l.QuizQuestions {
			r.drop(EntityQuizQuestions, q.ID, reason)
		}
	}
	if !r.opts.SkipLessonNotes {
		for _, n := range l.LessonNotes {
			r.drop(EntityLessonNotes, n.ID, reason)
		}
	}
	if !r.opts.SkipPDFResources {
		for _, p := range l.PDFResources {
			r.drop(EntityPDFResources, p.ID, reason)
		}
	}
}
