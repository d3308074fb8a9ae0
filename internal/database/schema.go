// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package database

import (
	"context"
	"fmt"
	"time"
)

// RestorableTables lists every table a backup can populate, in dependency
// order: a table only references tables that appear before it.
var RestorableTables = []string{
	"users",
	"cohorts",
	"students",
	"instructors",
	"assessor_accreditations",
	"unit_standards",
	"competency_units",
	"rubrics",
	"rubric_criteria",
	"rubric_levels",
	"rubric_criteria_mappings",
	"rubric_level_mappings",
	"courses",
	"course_instructors",
	"lessons",
	"exercises",
	"quiz_questions",
	"lesson_notes",
	"pdf_resources",
	"course_subscriptions",
	"exercise_submissions",
	"grades",
	"grade_criteria",
	"quiz_attempts",
	"assessment_audit_logs",
}

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries returns DDL accepted by both DuckDB and SQLite.
//
// Relationships are not declared as FOREIGN KEY constraints. DuckDB cannot
// delete a referenced row inside the same transaction that deletes its
// referrers, which the clear-existing restore needs; the restore engine
// resolves every reference itself and never writes a dangling id.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT,
			role TEXT NOT NULL DEFAULT 'student',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS cohorts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			start_date TIMESTAMP,
			end_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			cohort_id TEXT,
			registration_number TEXT NOT NULL UNIQUE,
			enrolled_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS instructors (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			title TEXT,
			bio TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS assessor_accreditations (
			id TEXT PRIMARY KEY,
			instructor_id TEXT NOT NULL,
			accreditation_number TEXT NOT NULL,
			issuing_body TEXT,
			issued_at TIMESTAMP,
			expires_at TIMESTAMP,
			UNIQUE (instructor_id, accreditation_number)
		)`,
		`CREATE TABLE IF NOT EXISTS unit_standards (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			nqf_level INTEGER,
			credits INTEGER CHECK (credits IS NULL OR credits >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS competency_units (
			id TEXT PRIMARY KEY,
			unit_standard_id TEXT NOT NULL,
			code TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS rubrics (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL UNIQUE,
			description TEXT,
			created_by_id TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rubric_criteria (
			id TEXT PRIMARY KEY,
			rubric_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			weight DOUBLE,
			sort_order INTEGER,
			UNIQUE (rubric_id, title)
		)`,
		`CREATE TABLE IF NOT EXISTS rubric_levels (
			id TEXT PRIMARY KEY,
			criterion_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			points DOUBLE NOT NULL DEFAULT 0,
			UNIQUE (criterion_id, title)
		)`,
		`CREATE TABLE IF NOT EXISTS rubric_criteria_mappings (
			id TEXT PRIMARY KEY,
			criterion_id TEXT NOT NULL,
			unit_standard_id TEXT NOT NULL,
			UNIQUE (criterion_id, unit_standard_id)
		)`,
		`CREATE TABLE IF NOT EXISTS rubric_level_mappings (
			id TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			competency_unit_id TEXT NOT NULL,
			UNIQUE (level_id, competency_unit_id)
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			created_by_id TEXT,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS course_instructors (
			id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL,
			instructor_id TEXT NOT NULL,
			role TEXT,
			UNIQUE (course_id, instructor_id)
		)`,
		`CREATE TABLE IF NOT EXISTS lessons (
			id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL,
			lesson_number INTEGER NOT NULL CHECK (lesson_number > 0),
			title TEXT NOT NULL,
			content TEXT,
			UNIQUE (course_id, lesson_number)
		)`,
		`CREATE TABLE IF NOT EXISTS exercises (
			id TEXT PRIMARY KEY,
			lesson_id TEXT NOT NULL,
			title TEXT NOT NULL,
			instructions TEXT,
			rubric_id TEXT,
			competency_unit_id TEXT,
			max_score DOUBLE CHECK (max_score IS NULL OR max_score >= 0),
			UNIQUE (lesson_id, title)
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_questions (
			id TEXT PRIMARY KEY,
			lesson_id TEXT NOT NULL,
			question_order INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			options TEXT,
			answer TEXT,
			points DOUBLE,
			UNIQUE (lesson_id, question_order)
		)`,
		`CREATE TABLE IF NOT EXISTS lesson_notes (
			id TEXT PRIMARY KEY,
			lesson_id TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT,
			UNIQUE (lesson_id, title)
		)`,
		`CREATE TABLE IF NOT EXISTS pdf_resources (
			id TEXT PRIMARY KEY,
			lesson_id TEXT NOT NULL,
			title TEXT,
			file_url TEXT NOT NULL,
			UNIQUE (lesson_id, file_url)
		)`,
		`CREATE TABLE IF NOT EXISTS course_subscriptions (
			id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			subscribed_at TIMESTAMP,
			UNIQUE (course_id, student_id)
		)`,
		`CREATE TABLE IF NOT EXISTS exercise_submissions (
			id TEXT PRIMARY KEY,
			exercise_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			content TEXT,
			submitted_at TIMESTAMP NOT NULL,
			UNIQUE (exercise_id, student_id, submitted_at)
		)`,
		`CREATE TABLE IF NOT EXISTS grades (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			exercise_id TEXT NOT NULL,
			submission_id TEXT,
			graded_by_id TEXT,
			score DOUBLE NOT NULL CHECK (score >= 0),
			feedback TEXT,
			graded_at TIMESTAMP,
			UNIQUE (student_id, exercise_id)
		)`,
		`CREATE TABLE IF NOT EXISTS grade_criteria (
			id TEXT PRIMARY KEY,
			grade_id TEXT NOT NULL,
			criterion_id TEXT NOT NULL,
			level_id TEXT,
			points DOUBLE,
			comment TEXT,
			UNIQUE (grade_id, criterion_id)
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
			id TEXT PRIMARY KEY,
			quiz_question_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			answer TEXT,
			correct BOOLEAN,
			attempted_at TIMESTAMP NOT NULL,
			UNIQUE (quiz_question_id, student_id, attempted_at)
		)`,
		`CREATE TABLE IF NOT EXISTS assessment_audit_logs (
			id TEXT PRIMARY KEY,
			grade_id TEXT,
			actor_id TEXT,
			action TEXT NOT NULL,
			details TEXT,
			created_at TIMESTAMP NOT NULL,
			fingerprint TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS restore_runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			actor TEXT,
			backup_version TEXT,
			exported_at TIMESTAMP,
			mode TEXT,
			encoding TEXT,
			dry_run BOOLEAN NOT NULL DEFAULT FALSE,
			options TEXT,
			stats TEXT,
			status TEXT NOT NULL,
			failed_entity TEXT,
			error TEXT
		)`,
	}
}
