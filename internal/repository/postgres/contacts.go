package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
)

const contactColumns = `id, name, email, subject, message, read, created_at, updated_at`

func scanContact(row pgx.Row) (*domain.ContactMessage, error) {
	var c domain.ContactMessage
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Read, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// ListContacts returns contact messages in arrival order.
func (r *Repository) ListContacts(ctx context.Context) ([]domain.ContactMessage, error) {
	const query = `SELECT ` + contactColumns + ` FROM contact_messages ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]domain.ContactMessage, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// GetContact fetches a contact message by identifier.
func (r *Repository) GetContact(ctx context.Context, id string) (*domain.ContactMessage, error) {
	const query = `SELECT ` + contactColumns + ` FROM contact_messages WHERE id = $1`
	return scanContact(r.db.QueryRow(ctx, query, id))
}

// CreateContact inserts a contact message.
func (r *Repository) CreateContact(ctx context.Context, c *domain.ContactMessage) error {
	const query = `INSERT INTO contact_messages (id, name, email, subject, message, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Email, c.Subject, c.Message, c.Read, c.CreatedAt, c.UpdatedAt)
	return mapError(err)
}

// UpdateContact overwrites every mutable column of an existing message.
func (r *Repository) UpdateContact(ctx context.Context, c *domain.ContactMessage) error {
	const query = `UPDATE contact_messages
		SET name = $2, email = $3, subject = $4, message = $5, read = $6, updated_at = $7
		WHERE id = $1`
	return requireAffected(r.db.Exec(ctx, query, c.ID, c.Name, c.Email, c.Subject, c.Message, c.Read, c.UpdatedAt))
}

// DeleteContact removes a contact message and returns it.
func (r *Repository) DeleteContact(ctx context.Context, id string) (*domain.ContactMessage, error) {
	const query = `DELETE FROM contact_messages WHERE id = $1 RETURNING ` + contactColumns
	return scanContact(r.db.QueryRow(ctx, query, id))
}
