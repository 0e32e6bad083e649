package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
	"github.com/Alexander2005-rgb/portfolio/internal/repository"
)

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return New(mock), mock
}

func TestCreateUserMapsSingleOwnerViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintSingleOwner})

	err := repo.CreateUser(context.Background(), &domain.User{ID: "u1", Role: domain.RoleOwner})
	assert.ErrorIs(t, err, repository.ErrOwnerExists)
}

func TestCreateUserMapsDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintUserEmail})

	err := repo.CreateUser(context.Background(), &domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleUser})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestGetUserByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByEmailScansRole(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC)
	rows := mock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow("u1", "A", "a@x.com", "hash", "owner", now, now)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).WithArgs("a@x.com").WillReturnRows(rows)

	user, err := repo.GetUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, user.Role)
	assert.Equal(t, "hash", user.PasswordHash)
}

func TestOwnerExists(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.OwnerExists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListCertificatesOrdersByIssueDate(t *testing.T) {
	repo, mock := newMockRepo(t)
	newer := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)
	rows := mock.NewRows([]string{"id", "title", "issuer", "issue_date", "credential_id", "credential_url", "certificate_url", "description", "category", "created_at", "updated_at"}).
		AddRow("c2", "Newer", "AWS", newer, "", "", "https://x/2", "", "Cloud", newer, newer).
		AddRow("c1", "Older", "Oracle", older, "", "", "https://x/1", "", "Database", older, older)
	mock.ExpectQuery(`FROM certificates ORDER BY issue_date DESC`).WillReturnRows(rows)

	certs, err := repo.ListCertificates(context.Background())
	require.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, "c2", certs[0].ID)
	assert.Equal(t, domain.CertificateCategoryCloud, certs[0].Category)
}

func TestUpdateProjectMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`UPDATE projects`).
		WithArgs("p1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateProject(context.Background(), &domain.Project{ID: "p1"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteSkillReturnsRecord(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rows := mock.NewRows([]string{"id", "name", "category", "icon", "level", "created_at", "updated_at"}).
		AddRow("s1", "Go", "Backend", "🐹", "Advanced", now, now)
	mock.ExpectQuery(`DELETE FROM skills WHERE id = \$1 RETURNING`).WithArgs("s1").WillReturnRows(rows)

	skill, err := repo.DeleteSkill(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Go", skill.Name)
	assert.Equal(t, domain.SkillLevelAdvanced, skill.Level)
}

func TestMalformedIDTreatedAsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`DELETE FROM contact_messages`).
		WithArgs("nope").
		WillReturnError(&pgconn.PgError{Code: pgInvalidText})

	_, err := repo.DeleteContact(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
