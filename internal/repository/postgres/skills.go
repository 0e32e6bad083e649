package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
)

const skillColumns = `id, name, category, icon, level, created_at, updated_at`

func scanSkill(row pgx.Row) (*domain.Skill, error) {
	var s domain.Skill
	var level string
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Icon, &level, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	s.Level = domain.SkillLevel(level)
	return &s, nil
}

// ListSkills returns skills in insertion order.
func (r *Repository) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	const query = `SELECT ` + skillColumns + ` FROM skills ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]domain.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *s)
	}
	return skills, rows.Err()
}

// GetSkill fetches a skill by identifier.
func (r *Repository) GetSkill(ctx context.Context, id string) (*domain.Skill, error) {
	const query = `SELECT ` + skillColumns + ` FROM skills WHERE id = $1`
	return scanSkill(r.db.QueryRow(ctx, query, id))
}

// CreateSkill inserts a skill.
func (r *Repository) CreateSkill(ctx context.Context, s *domain.Skill) error {
	const query = `INSERT INTO skills (id, name, category, icon, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, s.ID, s.Name, s.Category, s.Icon, s.Level, s.CreatedAt, s.UpdatedAt)
	return mapError(err)
}

// UpdateSkill overwrites every mutable column of an existing skill.
func (r *Repository) UpdateSkill(ctx context.Context, s *domain.Skill) error {
	const query = `UPDATE skills SET name = $2, category = $3, icon = $4, level = $5, updated_at = $6 WHERE id = $1`
	return requireAffected(r.db.Exec(ctx, query, s.ID, s.Name, s.Category, s.Icon, s.Level, s.UpdatedAt))
}

// DeleteSkill removes a skill and returns it.
func (r *Repository) DeleteSkill(ctx context.Context, id string) (*domain.Skill, error) {
	const query = `DELETE FROM skills WHERE id = $1 RETURNING ` + skillColumns
	return scanSkill(r.db.QueryRow(ctx, query, id))
}
