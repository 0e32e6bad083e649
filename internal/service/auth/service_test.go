package auth

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
	"github.com/Alexander2005-rgb/portfolio/internal/repository/memory"
	jwtpkg "github.com/Alexander2005-rgb/portfolio/pkg/jwt"
)

const testCode = "letmein"

func newTestService(t *testing.T) (Service, *memory.Store, *jwtpkg.Issuer) {
	t.Helper()
	issuer, err := jwtpkg.NewIssuer("test-secret", 7*24*time.Hour)
	require.NoError(t, err)
	store := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, issuer, testCode, log), store, issuer
}

func ownerInput() RegisterInput {
	return RegisterInput{Name: "Alex", Email: "alex@example.com", Password: "secret1", RegistrationCode: testCode}
}

func TestRegisterOwnerIssuesVerifiableToken(t *testing.T) {
	svc, _, issuer := newTestService(t)

	session, err := svc.RegisterOwner(context.Background(), ownerInput())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, session.User.Role)
	assert.NotEqual(t, "secret1", session.User.PasswordHash)

	claims, err := issuer.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, "owner", claims.Role)
}

func TestRegisterOwnerOnlyOnce(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterOwner(ctx, ownerInput())
	require.NoError(t, err)

	second := ownerInput()
	second.Email = "other@example.com"
	second.RegistrationCode = "wrong"
	_, err = svc.RegisterOwner(ctx, second)
	assert.ErrorIs(t, err, ErrOwnerExists)
}

func TestRegisterOwnerChecksCodeBeforeFields(t *testing.T) {
	svc, store, _ := newTestService(t)

	_, err := svc.RegisterOwner(context.Background(), RegisterInput{RegistrationCode: "nope"})
	assert.ErrorIs(t, err, ErrInvalidRegistrationCode)

	_, err = svc.RegisterOwner(context.Background(), RegisterInput{Email: "a@b.c", Password: "123", RegistrationCode: testCode})
	assert.ErrorIs(t, err, domain.ErrValidation)

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRegisterOwnerRejectsTakenEmail(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &domain.User{ID: "u1", Email: "alex@example.com", Role: domain.RoleUser}))

	_, err := svc.RegisterOwner(ctx, ownerInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	registered, err := svc.RegisterOwner(ctx, ownerInput())
	require.NoError(t, err)

	session, err := svc.Login(ctx, "alex@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)
	assert.NotEmpty(t, session.Token)

	_, err = svc.Login(ctx, "alex@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	registered, err := svc.RegisterOwner(ctx, ownerInput())
	require.NoError(t, err)

	user, err := svc.Me(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alex", user.Name)

	_, err = svc.Me(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateAndDeleteUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Sam", Email: "sam@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Name, email, and password are required", domain.ValidationMessage(err))

	_, err = svc.CreateUser(ctx, CreateUserInput{Name: "Sam", Email: "sam@example.com", Password: "123"})
	assert.Equal(t, "Password must be at least 6 characters", domain.ValidationMessage(err))

	user, err := svc.CreateUser(ctx, CreateUserInput{Name: "Sam", Email: "sam@example.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)

	_, err = svc.CreateUser(ctx, CreateUserInput{Name: "Sam2", Email: "sam@example.com", Password: "123456"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	deleted, err := svc.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, deleted.ID)

	_, err = svc.DeleteUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOverlongPasswordIsValidationError(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	input := ownerInput()
	input.Password = strings.Repeat("a", 80)
	_, err := svc.RegisterOwner(ctx, input)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Password must be at most 72 bytes", domain.ValidationMessage(err))

	_, err = svc.CreateUser(ctx, CreateUserInput{Name: "Sam", Email: "sam@example.com", Password: strings.Repeat("b", 73)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	input.Password = strings.Repeat("a", 72)
	_, err = svc.RegisterOwner(ctx, input)
	require.NoError(t, err)
}
