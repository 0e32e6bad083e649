package skill

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

const cacheKey = "skills"

// Input carries skill form fields.
type Input struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Level    string `json:"level"`
}

// Service manages skills.
type Service struct {
	skills repository.SkillRepository
	list   *cache.Collection[[]domain.Skill]
	logger *slog.Logger
	now    func() time.Time
}

// New returns a skill service. store may be nil to disable list caching.
func New(skills repository.SkillRepository, store cache.Store, ttl time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{
		skills: skills,
		list:   cache.NewCollection[[]domain.Skill](store, cacheKey, ttl, logger),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s Service) List(ctx context.Context) ([]domain.Skill, error) {
	return s.list.Load(ctx, s.skills.ListSkills)
}

func (s Service) Get(ctx context.Context, id string) (*domain.Skill, error) {
	return s.skills.GetSkill(ctx, id)
}

func (s Service) Create(ctx context.Context, input Input) (*domain.Skill, error) {
	if err := domain.RequireFields("All fields are required", input.Name, input.Category, input.Icon, input.Level); err != nil {
		return nil, err
	}
	level, err := parseLevel(input.Level)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sk := &domain.Skill{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(input.Category),
		Icon:      strings.TrimSpace(input.Icon),
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.skills.CreateSkill(ctx, sk); err != nil {
		return nil, err
	}
	s.list.Invalidate(ctx)
	s.logger.Info("skill created", "skill_id", sk.ID)
	return sk, nil
}

// Update replaces every field with the input, blanks included.
func (s Service) Update(ctx context.Context, id string, input Input) (*domain.Skill, error) {
	sk, err := s.skills.GetSkill(ctx, id)
	if err != nil {
		return nil, err
	}
	level, err := parseLevel(input.Level)
	if err != nil {
		return nil, err
	}
	sk.Name = strings.TrimSpace(input.Name)
	sk.Category = strings.TrimSpace(input.Category)
	sk.Icon = strings.TrimSpace(input.Icon)
	sk.Level = level
	sk.UpdatedAt = s.now()
	if err := s.skills.UpdateSkill(ctx, sk); err != nil {
		return nil, err
	}
	s.list.Invalidate(ctx)
	s.logger.Info("skill updated", "skill_id", sk.ID)
	return sk, nil
}

func (s Service) Delete(ctx context.Context, id string) (*domain.Skill, error) {
	sk, err := s.skills.DeleteSkill(ctx, id)
	if err != nil {
		return nil, err
	}
	s.list.Invalidate(ctx)
	s.logger.Info("skill deleted", "skill_id", sk.ID)
	return sk, nil
}

// parseLevel accepts a known level or blank.
func parseLevel(value string) (domain.SkillLevel, error) {
	level := domain.SkillLevel(strings.TrimSpace(value))
	if level != "" && !level.Valid() {
		return "", domain.ValidationError("Invalid skill level")
	}
	return level, nil
}
