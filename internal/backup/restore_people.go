// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"strings"
)

func restoreUsers(ctx context.Context, r *run, d *Data) error {
	// Only full restores without skipUsers may create users.
	matchOnly := r.opts.SkipUsers || r.mode != ModeFull
	for _, u := range d.Users {
		if !r.scope.allows(EntityUsers, u.ID) {
			continue
		}
		email := strings.TrimSpace(u.Email)
		if email == "" {
			r.drop(EntityUsers, u.ID, "missing email")
			continue
		}
		role := u.Role
		if role == "" {
			role = "student"
		}
		err := r.restore(ctx, record{
			entity:   EntityUsers,
			backupID: u.ID,
			row: row{
				table: "users",
				cols:  []string{"email", "name", "password_hash", "role", "created_at", "updated_at"},
				vals: []any{email, u.Name, nullString(u.PasswordHash), role,
					timeOr(u.CreatedAt, r.now), nullTime(u.UpdatedAt)},
			},
			natural:   &key{`SELECT id FROM users WHERE lower(email) = lower(?) ORDER BY id LIMIT 1`, []any{email}},
			conflict:  &key{`SELECT id FROM users WHERE email = ?`, []any{email}},
			matchOnly: matchOnly,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreCohorts(ctx context.Context, r *run, d *Data) error {
	for _, c := range d.Cohorts {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			r.drop(EntityCohorts, c.ID, "missing name")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityCohorts,
			backupID: c.ID,
			row: row{
				table: "cohorts",
				cols:  []string{"name", "description", "start_date", "end_date", "created_at"},
				vals: []any{name, nullString(c.Description), nullTime(c.StartDate), nullTime(c.EndDate),
					timeOr(c.CreatedAt, r.now)},
			},
			natural: &key{`SELECT id FROM cohorts WHERE name = ?`, []any{name}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreStudents(ctx context.Context, r *run, d *Data) error {
	for _, s := range d.Students {
		reg := strings.TrimSpace(s.RegistrationNumber)
		if reg == "" {
			r.drop(EntityStudents, s.ID, "missing registrationNumber")
			continue
		}
		userID, ok := r.ref(EntityUsers, s.UserID)
		if !ok {
			r.drop(EntityStudents, s.ID, "unresolved userId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityStudents,
			backupID: s.ID,
			row: row{
				table: "students",
				cols:  []string{"user_id", "cohort_id", "registration_number", "enrolled_at"},
				vals:  []any{userID, r.optionalRef(EntityCohorts, s.CohortID), reg, nullTime(s.EnrolledAt)},
			},
			natural: &key{`SELECT id FROM students WHERE registration_number = ?`, []any{reg}},
			// the live user may already be a student under another number
			conflict: &key{`SELECT id FROM students WHERE registration_number = ? OR user_id = ? ORDER BY id LIMIT 1`,
				[]any{reg, userID}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreInstructors(ctx context.Context, r *run, d *Data) error {
	for _, in := range d.Instructors {
		userID, ok := r.ref(EntityUsers, in.UserID)
		if !ok {
			r.drop(EntityInstructors, in.ID, "unresolved userId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityInstructors,
			backupID: in.ID,
			row: row{
				table: "instructors",
				cols:  []string{"user_id", "title", "bio"},
				vals:  []any{userID, nullString(in.Title), nullString(in.Bio)},
			},
			natural: &key{`SELECT id FROM instructors WHERE user_id = ?`, []any{userID}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreAccreditations(ctx context.Context, r *run, d *Data) error {
	for _, a := range d.AssessorAccreditations {
		number := strings.TrimSpace(a.AccreditationNumber)
		if number == "" {
			r.drop(EntityAssessorAccreditations, a.ID, "missing accreditationNumber")
			continue
		}
		instructorID, ok := r.ref(EntityInstructors, a.InstructorID)
		if !ok {
			r.drop(EntityAssessorAccreditations, a.ID, "unresolved instructorId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityAssessorAccreditations,
			backupID: a.ID,
			row: row{
				table: "assessor_accreditations",
				cols:  []string{"instructor_id", "accreditation_number", "issuing_body", "issued_at", "expires_at"},
				vals: []any{instructorID, number, nullString(a.IssuingBody),
					nullTime(a.IssuedAt), nullTime(a.ExpiresAt)},
			},
			natural: &key{`SELECT id FROM assessor_accreditations WHERE instructor_id = ? AND accreditation_number = ?`,
				[]any{instructorID, number}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
