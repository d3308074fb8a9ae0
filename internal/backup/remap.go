// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

// EntityType names a restorable entity. The values double as the keys of
// restore statistics.
type EntityType string

const (
	EntityUsers                  EntityType = "users"
	EntityCohorts                EntityType = "cohorts"
	EntityStudents               EntityType = "students"
	EntityInstructors            EntityType = "instructors"
	EntityAssessorAccreditations EntityType = "assessorAccreditations"
	EntityUnitStandards          EntityType = "unitStandards"
	EntityCompetencyUnits        EntityType = "competencyUnits"
	EntityRubrics                EntityType = "rubrics"
	EntityRubricCriteria         EntityType = "rubricCriteria"
	EntityRubricLevels           EntityType = "rubricLevels"
	EntityRubricCriteriaMappings EntityType = "rubricCriteriaMappings"
	EntityRubricLevelMappings    EntityType = "rubricLevelMappings"
	EntityCourses                EntityType = "courses"
	EntityCourseInstructors      EntityType = "courseInstructors"
	EntityLessons                EntityType = "lessons"
	EntityExercises              EntityType = "exercises"
	EntityQuizQuestions          EntityType = "quizQuestions"
	EntityLessonNotes            EntityType = "lessonNotes"
	EntityPDFResources           EntityType = "pdfResources"
	EntityCourseSubscriptions    EntityType = "courseSubscriptions"
	EntityExerciseSubmissions    EntityType = "exerciseSubmissions"
	EntityGrades                 EntityType = "grades"
	EntityGradeCriteria          EntityType = "gradeCriteria"
	EntityQuizAttempts           EntityType = "quizAttempts"
	EntityAssessmentAuditLogs    EntityType = "assessmentAuditLogs"
)

// remappedEntities are the types other records reference by id.
var remappedEntities = map[EntityType]bool{
	EntityUsers:               true,
	EntityCohorts:             true,
	EntityStudents:            true,
	EntityInstructors:         true,
	EntityUnitStandards:       true,
	EntityCompetencyUnits:     true,
	EntityRubrics:             true,
	EntityRubricCriteria:      true,
	EntityRubricLevels:        true,
	EntityCourses:             true,
	EntityLessons:             true,
	EntityExercises:           true,
	EntityQuizQuestions:       true,
	EntityExerciseSubmissions: true,
	EntityGrades:              true,
}

// RemapContext translates backup-time ids into live ids for one restore run.
// An entry exists only for records that were created or matched, and an
// entry is never overwritten.
type RemapContext struct {
	tables map[EntityType]map[ID]string
}

// NewRemapContext returns an empty context with a table per remapped type.
func NewRemapContext() *RemapContext {
	c := &RemapContext{tables: make(map[EntityType]map[ID]string, len(remappedEntities))}
	for e := range remappedEntities {
		c.tables[e] = make(map[ID]string)
	}
	return c
}

// Set records backupID → liveID. It returns false, changing nothing, when
// the type has no table, either id is empty, or backupID is already mapped.
func (c *RemapContext) Set(entity EntityType, backupID ID, liveID string) bool {
	t, ok := c.tables[entity]
	if !ok || backupID == "" || liveID == "" {
		return false
	}
	if _, exists := t[backupID]; exists {
		return false
	}
	t[backupID] = liveID
	return true
}

// Lookup returns the live id for backupID.
func (c *RemapContext) Lookup(entity EntityType, backupID ID) (string, bool) {
	if backupID == "" {
		return "", false
	}
	live, ok := c.tables[entity][backupID]
	return live, ok
}

// Has reports whether backupID has been restored or matched in this run.
func (c *RemapContext) Has(entity EntityType, backupID ID) bool {
	_, ok := c.Lookup(entity, backupID)
	return ok
}

// Len returns the number of mapped ids for entity.
func (c *RemapContext) Len(entity EntityType) int {
	return len(c.tables[entity])
}
