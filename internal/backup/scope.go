// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

// scope is the set of backup records a scoped restore may touch: the source
// course's lessons and their content, plus the rubric and standards records
// that content references. A nil *scope allows everything.
type scope struct {
	course ID
	ids    map[EntityType]map[ID]bool
}

func (s *scope) allows(entity EntityType, id ID) bool {
	if s == nil {
		return true
	}
	if entity == EntityCourses {
		return id == s.course
	}
	return s.ids[entity][id]
}

func (s *scope) add(entity EntityType, id ID) {
	if id == "" {
		return
	}
	set, ok := s.ids[entity]
	if !ok {
		set = make(map[ID]bool)
		s.ids[entity] = set
	}
	set[id] = true
}

// buildScope walks references outward from the source course:
// lessons → content → rubrics → criteria → levels → competency units and
// unit standards, plus the users that authored in-scope rubrics.
func buildScope(d *Data, course ID) *scope {
	s := &scope{course: course, ids: make(map[EntityType]map[ID]bool)}

	var exercises []Exercise
	for _, b := range d.CoursesNested {
		if b.Course.ID != course {
			continue
		}
		for _, l := range b.Lessons {
			s.add(EntityLessons, l.Lesson.ID)
			exercises = append(exercises, l.Exercises...)
		}
	}
	for _, l := range d.Lessons {
		if l.CourseID == course {
			s.add(EntityLessons, l.ID)
		}
	}
	for _, e := range d.Exercises {
		if s.allows(EntityLessons, e.LessonID) {
			exercises = append(exercises, e)
		}
	}
	for _, q := range d.QuizQuestions {
		if s.allows(EntityLessons, q.LessonID) {
			s.add(EntityQuizQuestions, q.ID)
		}
	}

	for _, e := range exercises {
		s.add(EntityExercises, e.ID)
		s.add(EntityRubrics, e.RubricID)
		s.add(EntityCompetencyUnits, e.CompetencyUnitID)
	}

	for _, rb := range d.Rubrics {
		if s.allows(EntityRubrics, rb.ID) {
			s.add(EntityUsers, rb.CreatedByID)
		}
	}
	for _, c := range d.RubricCriteria {
		if s.allows(EntityRubrics, c.RubricID) {
			s.add(EntityRubricCriteria, c.ID)
		}
	}
	for _, l := range d.RubricLevels {
		if s.allows(EntityRubricCriteria, l.CriterionID) {
			s.add(EntityRubricLevels, l.ID)
		}
	}
	for _, m := range d.RubricLevelMappings {
		if s.allows(EntityRubricLevels, m.LevelID) {
			s.add(EntityCompetencyUnits, m.CompetencyUnitID)
		}
	}
	for _, m := range d.RubricCriteriaMappings {
		if s.allows(EntityRubricCriteria, m.CriterionID) {
			s.add(EntityUnitStandards, m.UnitStandardID)
		}
	}
	for _, cu := range d.CompetencyUnits {
		if s.allows(EntityCompetencyUnits, cu.ID) {
			s.add(EntityUnitStandards, cu.UnitStandardID)
		}
	}
	return s
}
