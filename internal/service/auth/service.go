package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
	"github.com/Alexander2005-rgb/portfolio/internal/repository"
	"github.com/Alexander2005-rgb/portfolio/pkg/crypto"
	jwtpkg "github.com/Alexander2005-rgb/portfolio/pkg/jwt"
)

var (
	ErrOwnerExists             = errors.New("auth: owner already exists")
	ErrInvalidRegistrationCode = errors.New("auth: invalid registration code")
	ErrEmailTaken              = errors.New("auth: email already registered")
	ErrInvalidCredentials      = errors.New("auth: invalid credentials")
	ErrUserNotFound            = errors.New("auth: user not found")
)

// Service handles owner bootstrap, sign-in and user management.
type Service struct {
	users            repository.UserRepository
	tokens           *jwtpkg.Issuer
	registrationCode string
	logger           *slog.Logger
	now              func() time.Time
}

// New constructs a Service.
func New(users repository.UserRepository, tokens *jwtpkg.Issuer, registrationCode string, logger *slog.Logger) Service {
	return Service{
		users:            users,
		tokens:           tokens,
		registrationCode: registrationCode,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput carries the owner bootstrap form.
type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	RegistrationCode string
}

// CreateUserInput carries the fields for an owner-created account.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is a signed-in user together with its bearer token.
type Session struct {
	Token string
	User  *domain.User
}

// RegisterOwner creates the single owner account.
func (s Service) RegisterOwner(ctx context.Context, input RegisterInput) (Session, error) {
	exists, err := s.users.OwnerExists(ctx)
	if err != nil {
		return Session{}, err
	}
	if exists {
		return Session{}, ErrOwnerExists
	}
	if input.RegistrationCode != s.registrationCode {
		return Session{}, ErrInvalidRegistrationCode
	}
	if err := validateAccount(input.Name, input.Email, input.Password); err != nil {
		return Session{}, err
	}
	user, err := s.createAccount(ctx, input.Name, input.Email, input.Password, domain.RoleOwner)
	if err != nil {
		return Session{}, err
	}
	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return Session{}, err
	}
	s.log().Info("owner registered", "user_id", user.ID)
	return Session{Token: token, User: user}, nil
}

// Login exchanges credentials for a token.
func (s Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := crypto.ComparePassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return Session{}, err
	}
	s.log().Info("user logged in", "user_id", user.ID, "role", user.Role)
	return Session{Token: token, User: user}, nil
}

// Me returns the account behind a verified token subject.
func (s Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateUser adds a subordinate account with the user role.
func (s Service) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := validateAccount(input.Name, input.Email, input.Password); err != nil {
		return nil, err
	}
	user, err := s.createAccount(ctx, input.Name, input.Email, input.Password, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	s.log().Info("user created", "user_id", user.ID)
	return user, nil
}

// DeleteUser removes an account and returns it.
func (s Service) DeleteUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.DeleteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.log().Info("user deleted", "user_id", user.ID)
	return user, nil
}

// ListUsers returns every account.
func (s Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

func (s Service) createAccount(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrOwnerExists):
			return nil, ErrOwnerExists
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s Service) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

func validateAccount(name, email, password string) error {
	if err := domain.RequireFields("Name, email, and password are required", name, email, password); err != nil {
		return err
	}
	if len(password) < crypto.MinPasswordLength {
		return domain.ValidationError(fmt.Sprintf("Password must be at least %d characters", crypto.MinPasswordLength))
	}
	if len(password) > crypto.MaxPasswordBytes {
		return domain.ValidationError(fmt.Sprintf("Password must be at most %d bytes", crypto.MaxPasswordBytes))
	}
	return nil
}
