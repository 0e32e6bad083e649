package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
)

const projectColumns = `id, title, description, image_url, project_url, category, created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var category string
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.ProjectURL, &category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	p.Category = domain.ProjectCategory(category)
	return &p, nil
}

// ListProjects returns projects in insertion order.
func (r *Repository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// GetProject fetches a project by identifier.
func (r *Repository) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

// CreateProject inserts a project.
func (r *Repository) CreateProject(ctx context.Context, p *domain.Project) error {
	const query = `INSERT INTO projects (id, title, description, image_url, project_url, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, p.ID, p.Title, p.Description, p.ImageURL, p.ProjectURL, p.Category, p.CreatedAt, p.UpdatedAt)
	return mapError(err)
}

// UpdateProject overwrites every mutable column of an existing project.
func (r *Repository) UpdateProject(ctx context.Context, p *domain.Project) error {
	const query = `UPDATE projects
		SET title = $2, description = $3, image_url = $4, project_url = $5, category = $6, updated_at = $7
		WHERE id = $1`
	return requireAffected(r.db.Exec(ctx, query, p.ID, p.Title, p.Description, p.ImageURL, p.ProjectURL, p.Category, p.UpdatedAt))
}

// DeleteProject removes a project and returns it.
func (r *Repository) DeleteProject(ctx context.Context, id string) (*domain.Project, error) {
	const query = `DELETE FROM projects WHERE id = $1 RETURNING ` + projectColumns
	return scanProject(r.db.QueryRow(ctx, query, id))
}
