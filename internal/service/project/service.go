package project

import (
	"context"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/Alexander2005-rgb/portfolio/internal/cache"
	"github.com/Alexander2005-rgb/portfolio/internal/domain"
	"github.com/Alexander2005-rgb/portfolio/internal/repository"
)

const cacheKey = "projects"

// Input carries project form fields. Empty strings mean "not supplied" on update.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	ProjectURL  string `json:"projectUrl"`
	Category    string `json:"category"`
}

// Service manages showcased projects.
type Service struct {
	projects repository.ProjectRepository
	list     *cache.Collection[[]domain.Project]
	logger   *slog.Logger
	now      func() time.Time
}

// New returns a project service. store may be nil to disable list caching.
func New(projects repository.ProjectRepository, store cache.Store, ttl time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{
		projects: projects,
		list:     cache.NewCollection[[]domain.Project](store, cacheKey, ttl, logger),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns projects in insertion order.
func (s Service) List(ctx context.Context) ([]domain.Project, error) {
	return s.list.Load(ctx, s.projects.ListProjects)
}

// Get returns a single project.
func (s Service) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetProject(ctx, id)
}

// Create validates and stores a new project.
func (s Service) Create(ctx context.Context, input Input) (*domain.Project, error) {
	if err := domain.RequireFields("All fields are required", input.Title, input.Description, input.ImageURL, input.ProjectURL); err != nil {
		return nil, err
	}
	category, err := parseCategory(input.Category, domain.DefaultProjectCategory)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p := &domain.Project{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		ProjectURL:  strings.TrimSpace(input.ProjectURL),
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	s.list.Invalidate(ctx)
	s.logger.Info("project created", "project_id", p.ID)
	return p, nil
}

// Update merges supplied fields over the stored project; blank fields keep their value.
func (s Service) Update(ctx context.Context, id string, input Input) (*domain.Project, error) {
	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	keep(&p.Title, input.Title)
	keep(&p.Description, input.Description)
	keep(&p.ImageURL, input.ImageURL)
	keep(&p.ProjectURL, input.ProjectURL)
	if p.Category, err = parseCategory(input.Category, p.Category); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()
	if err := s.projects.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	s.list.Invalidate(ctx)
	s.logger.Info("project updated", "project_id", p.ID)
	return p, nil
}

// Delete removes a project and returns it.
func (s Service) Delete(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.DeleteProject(ctx, id)
	if err != nil {
		return nil, err
	}
	s.list.Invalidate(ctx)
	s.logger.Info("project deleted", "project_id", p.ID)
	return p, nil
}

func keep(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func parseCategory(value string, fallback domain.ProjectCategory) (domain.ProjectCategory, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return fallback, nil
	}
	category := domain.ProjectCategory(v)
	if !category.Valid() {
		return "", domain.ValidationError("Invalid project category")
	}
	return category, nil
}
