// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

// Package backup restores an exported Classroom snapshot into a live store.
//
// # Overview
//
// A backup Document carries a metadata block and a data block. The data block
// holds flat per-entity arrays, a course-nested tree (courses with their
// lessons, exercises, quiz questions, notes and PDF resources), or both.
// Primary keys in a backup are meaningless to the live store, so every
// restored row gets a fresh id and a RemapContext translates backup-time ids
// into live ids as entity types are restored.
//
// # Execution
//
// Engine.Restore validates the document and options, builds an ordered plan
// of steps (one per entity type, plus the nested tree walk) and runs it in a
// single transaction:
//
//	users → cohorts → students → instructors → assessorAccreditations →
//	unitStandards → competencyUnits → rubrics → rubricCriteria → rubricLevels →
//	rubricCriteriaMappings → rubricLevelMappings → [coursesNested] → courses →
//	courseInstructors → lessons → exercises → quizQuestions → lessonNotes →
//	pdfResources → courseSubscriptions → exerciseSubmissions → grades →
//	gradeCriteria → quizAttempts → assessmentAuditLogs
//
// Each step rewrites foreign keys through the RemapContext. A record whose
// required reference cannot be resolved is dropped; an unresolved optional
// reference is written as NULL. Records with a natural key (email,
// registration number, course title, lesson number within a course, ...) are
// matched to existing rows instead of duplicated. Everything else is inserted
// with ON CONFLICT DO NOTHING so a second run of the same backup creates
// nothing.
//
// # Modes
//
//	ModeFull   - every step; optionally clears all restorable tables first
//	ModeScoped - one backup course copied onto an existing live course:
//	             curriculum plus the rubric and standards it references,
//	             no people and no student history
//	ModeMerge  - every backup course merged onto one live course
//	             (requires Options.MergeAllCourses)
//
// Any store error other than a uniqueness conflict aborts the run; the
// transaction rolls back and the returned *StepError names the entity type.
package backup
