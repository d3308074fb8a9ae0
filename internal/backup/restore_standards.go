// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package backup

import (
	"context"
	"strings"
)

func restoreUnitStandards(ctx context.Context, r *run, d *Data) error {
	for _, us := range d.UnitStandards {
		if !r.scope.allows(EntityUnitStandards, us.ID) {
			continue
		}
		code := strings.TrimSpace(us.Code)
		if code == "" {
			r.drop(EntityUnitStandards, us.ID, "missing code")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityUnitStandards,
			backupID: us.ID,
			row: row{
				table: "unit_standards",
				cols:  []string{"code", "title", "nqf_level", "credits"},
				vals:  []any{code, us.Title, nullInt(us.NQFLevel), nullInt(us.Credits)},
			},
			natural: &key{`SELECT id FROM unit_standards WHERE code = ?`, []any{code}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreCompetencyUnits(ctx context.Context, r *run, d *Data) error {
	for _, cu := range d.CompetencyUnits {
		if !r.scope.allows(EntityCompetencyUnits, cu.ID) {
			continue
		}
		code := strings.TrimSpace(cu.Code)
		if code == "" {
			r.drop(EntityCompetencyUnits, cu.ID, "missing code")
			continue
		}
		standardID, ok := r.ref(EntityUnitStandards, cu.UnitStandardID)
		if !ok {
			r.drop(EntityCompetencyUnits, cu.ID, "unresolved unitStandardId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityCompetencyUnits,
			backupID: cu.ID,
			row: row{
				table: "competency_units",
				cols:  []string{"unit_standard_id", "code", "title", "description"},
				vals:  []any{standardID, code, cu.Title, nullString(cu.Description)},
			},
			natural: &key{`SELECT id FROM competency_units WHERE code = ?`, []any{code}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreRubrics(ctx context.Context, r *run, d *Data) error {
	for _, rb := range d.Rubrics {
		if !r.scope.allows(EntityRubrics, rb.ID) {
			continue
		}
		title := strings.TrimSpace(rb.Title)
		if title == "" {
			r.drop(EntityRubrics, rb.ID, "missing title")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityRubrics,
			backupID: rb.ID,
			row: row{
				table: "rubrics",
				cols:  []string{"title", "description", "created_by_id", "created_at"},
				vals: []any{title, nullString(rb.Description), r.optionalRef(EntityUsers, rb.CreatedByID),
					timeOr(rb.CreatedAt, r.now)},
			},
			natural: &key{`SELECT id FROM rubrics WHERE title = ?`, []any{title}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreRubricCriteria(ctx context.Context, r *run, d *Data) error {
	for _, c := range d.RubricCriteria {
		if !r.scope.allows(EntityRubricCriteria, c.ID) {
			continue
		}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			r.drop(EntityRubricCriteria, c.ID, "missing title")
			continue
		}
		rubricID, ok := r.ref(EntityRubrics, c.RubricID)
		if !ok {
			r.drop(EntityRubricCriteria, c.ID, "unresolved rubricId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityRubricCriteria,
			backupID: c.ID,
			row: row{
				table: "rubric_criteria",
				cols:  []string{"rubric_id", "title", "description", "weight", "sort_order"},
				vals:  []any{rubricID, title, nullString(c.Description), nullFloat(c.Weight), nullInt(c.SortOrder)},
			},
			natural: &key{`SELECT id FROM rubric_criteria WHERE rubric_id = ? AND title = ?`, []any{rubricID, title}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreRubricLevels(ctx context.Context, r *run, d *Data) error {
	for _, l := range d.RubricLevels {
		if !r.scope.allows(EntityRubricLevels, l.ID) {
			continue
		}
		title := strings.TrimSpace(l.Title)
		if title == "" {
			r.drop(EntityRubricLevels, l.ID, "missing title")
			continue
		}
		criterionID, ok := r.ref(EntityRubricCriteria, l.CriterionID)
		if !ok {
			r.drop(EntityRubricLevels, l.ID, "unresolved criterionId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityRubricLevels,
			backupID: l.ID,
			row: row{
				table: "rubric_levels",
				cols:  []string{"criterion_id", "title", "description", "points"},
				vals:  []any{criterionID, title, nullString(l.Description), l.Points},
			},
			natural: &key{`SELECT id FROM rubric_levels WHERE criterion_id = ? AND title = ?`, []any{criterionID, title}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreRubricCriteriaMappings(ctx context.Context, r *run, d *Data) error {
	for _, m := range d.RubricCriteriaMappings {
		if !r.scope.allows(EntityRubricCriteria, m.CriterionID) {
			continue
		}
		criterionID, ok := r.ref(EntityRubricCriteria, m.CriterionID)
		if !ok {
			r.drop(EntityRubricCriteriaMappings, m.ID, "unresolved criterionId")
			continue
		}
		standardID, ok := r.ref(EntityUnitStandards, m.UnitStandardID)
		if !ok {
			r.drop(EntityRubricCriteriaMappings, m.ID, "unresolved unitStandardId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityRubricCriteriaMappings,
			backupID: m.ID,
			row: row{
				table: "rubric_criteria_mappings",
				cols:  []string{"criterion_id", "unit_standard_id"},
				vals:  []any{criterionID, standardID},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func restoreRubricLevelMappings(ctx context.Context, r *run, d *Data) error {
	for _, m := range d.RubricLevelMappings {
		if !r.scope.allows(EntityRubricLevels, m.LevelID) {
			continue
		}
		levelID, ok := r.ref(EntityRubricLevels, m.LevelID)
		if !ok {
			r.drop(EntityRubricLevelMappings, m.ID, "unresolved levelId")
			continue
		}
		unitID, ok := r.ref(EntityCompetencyUnits, m.CompetencyUnitID)
		if !ok {
			r.drop(EntityRubricLevelMappings, m.ID, "unresolved competencyUnitId")
			continue
		}
		err := r.restore(ctx, record{
			entity:   EntityRubricLevelMappings,
			backupID: m.ID,
			row: row{
				table: "rubric_level_mappings",
				cols:  []string{"level_id", "competency_unit_id"},
				vals:  []any{levelID, unitID},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
