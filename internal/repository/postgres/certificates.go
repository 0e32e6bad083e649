package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
)

const certificateColumns = `id, title, issuer, issue_date, credential_id, credential_url, certificate_url, description, category, created_at, updated_at`

func scanCertificate(row pgx.Row) (*domain.Certificate, error) {
	var c domain.Certificate
	var category string
	if err := row.Scan(&c.ID, &c.Title, &c.Issuer, &c.IssueDate, &c.CredentialID, &c.CredentialURL,
		&c.CertificateURL, &c.Description, &category, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	c.Category = domain.CertificateCategory(category)
	return &c, nil
}

// ListCertificates returns certificates, most recently issued first.
func (r *Repository) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	const query = `SELECT ` + certificateColumns + ` FROM certificates ORDER BY issue_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certificates := make([]domain.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		certificates = append(certificates, *c)
	}
	return certificates, rows.Err()
}

// GetCertificate fetches a certificate by identifier.
func (r *Repository) GetCertificate(ctx context.Context, id string) (*domain.Certificate, error) {
	const query = `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	return scanCertificate(r.db.QueryRow(ctx, query, id))
}

// CreateCertificate inserts a certificate.
func (r *Repository) CreateCertificate(ctx context.Context, c *domain.Certificate) error {
	const query = `INSERT INTO certificates (id, title, issuer, issue_date, credential_id, credential_url, certificate_url, description, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query, c.ID, c.Title, c.Issuer, c.IssueDate, c.CredentialID, c.CredentialURL,
		c.CertificateURL, c.Description, c.Category, c.CreatedAt, c.UpdatedAt)
	return mapError(err)
}

// UpdateCertificate overwrites every mutable column of an existing certificate.
func (r *Repository) UpdateCertificate(ctx context.Context, c *domain.Certificate) error {
	const query = `UPDATE certificates
		SET title = $2, issuer = $3, issue_date = $4, credential_id = $5, credential_url = $6,
			certificate_url = $7, description = $8, category = $9, updated_at = $10
		WHERE id = $1`
	return requireAffected(r.db.Exec(ctx, query, c.ID, c.Title, c.Issuer, c.IssueDate, c.CredentialID, c.CredentialURL,
		c.CertificateURL, c.Description, c.Category, c.UpdatedAt))
}

// DeleteCertificate removes a certificate and returns it.
func (r *Repository) DeleteCertificate(ctx context.Context, id string) (*domain.Certificate, error) {
	const query = `DELETE FROM certificates WHERE id = $1 RETURNING ` + certificateColumns
	return scanCertificate(r.db.QueryRow(ctx, query, id))
}
