package repository

import (
	"context"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	OwnerExists(ctx context.Context) (bool, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
}

// ProjectRepository persists portfolio projects.
type ProjectRepository interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, project *domain.Project) error
	UpdateProject(ctx context.Context, project *domain.Project) error
	DeleteProject(ctx context.Context, id string) (*domain.Project, error)
}

// CertificateRepository persists certificates.
type CertificateRepository interface {
	ListCertificates(ctx context.Context) ([]domain.Certificate, error)
	GetCertificate(ctx context.Context, id string) (*domain.Certificate, error)
	CreateCertificate(ctx context.Context, certificate *domain.Certificate) error
	UpdateCertificate(ctx context.Context, certificate *domain.Certificate) error
	DeleteCertificate(ctx context.Context, id string) (*domain.Certificate, error)
}

// SkillRepository persists skills.
type SkillRepository interface {
	ListSkills(ctx context.Context) ([]domain.Skill, error)
	GetSkill(ctx context.Context, id string) (*domain.Skill, error)
	CreateSkill(ctx context.Context, skill *domain.Skill) error
	UpdateSkill(ctx context.Context, skill *domain.Skill) error
	DeleteSkill(ctx context.Context, id string) (*domain.Skill, error)
}

// ContactRepository persists contact form messages.
type ContactRepository interface {
	ListContacts(ctx context.Context) ([]domain.ContactMessage, error)
	GetContact(ctx context.Context, id string) (*domain.ContactMessage, error)
	CreateContact(ctx context.Context, contact *domain.ContactMessage) error
	UpdateContact(ctx context.Context, contact *domain.ContactMessage) error
	DeleteContact(ctx context.Context, id string) (*domain.ContactMessage, error)
}
