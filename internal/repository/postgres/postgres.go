package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Alexander2005-rgb/portfolio/internal/repository"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"

	constraintUserEmail   = "users_email_key"
	constraintSingleOwner = "users_single_owner"
)

// DB is the subset of pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	db DB
}

// New constructs a Repository.
func New(db DB) *Repository {
	return &Repository{db: db}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository        = (*Repository)(nil)
	_ repository.ProjectRepository     = (*Repository)(nil)
	_ repository.CertificateRepository = (*Repository)(nil)
	_ repository.SkillRepository       = (*Repository)(nil)
	_ repository.ContactRepository     = (*Repository)(nil)
)

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintSingleOwner:
			return repository.ErrOwnerExists
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintUserEmail:
			return repository.ErrDuplicateEmail
		case pgErr.Code == pgInvalidText:
			// malformed uuid in a lookup
			return repository.ErrNotFound
		}
	}
	return err
}

// requireAffected turns a zero-row update into ErrNotFound.
func requireAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
