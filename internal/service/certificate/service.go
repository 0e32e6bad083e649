package certificate

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

const (
	cacheKey        = "certificates"
	requiredMessage = "Title, issuer, issue date, and certificate URL are required"
)

// Input carries certificate form fields. Nil fields are left untouched on update.
type Input struct {
	Title          *string `json:"title"`
	Issuer         *string `json:"issuer"`
	IssueDate      *string `json:"issueDate"`
	CredentialID   *string `json:"credentialId"`
	CredentialURL  *string `json:"credentialUrl"`
	CertificateURL *string `json:"certificateUrl"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
}

// Service manages certificates.
type Service struct {
	certificates repository.CertificateRepository
	list         *cache.Collection[[]domain.Certificate]
	logger       *slog.Logger
	now          func() time.Time
}

// New returns a certificate service. store may be nil to disable list caching.
func New(certificates repository.CertificateRepository, store cache.Store, ttl time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{
		certificates: certificates,
		list:         cache.NewCollection[[]domain.Certificate](store, cacheKey, ttl, logger),
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// List returns certificates, newest issue date first.
func (s Service) List(ctx context.Context) ([]domain.Certificate, error) {
	return s.list.Load(ctx, s.certificates.ListCertificates)
}

// Get returns a single certificate.
func (s Service) Get(ctx context.Context, id string) (*domain.Certificate, error) {
	return s.certificates.GetCertificate(ctx, id)
}

// Create validates and stores a certificate.
func (s Service) Create(ctx context.Context, input Input) (*domain.Certificate, error) {
	if err := domain.RequireFields(requiredMessage, value(input.Title), value(input.Issuer), value(input.IssueDate), value(input.CertificateURL)); err != nil {
		return nil, err
	}
	now := s.now()
	c := &domain.Certificate{
		ID:        uuid.NewString(),
		Category:  domain.DefaultCertificateCategory,
		CreatedAt: now,
	}
	if err := apply(c, input); err != nil {
		return nil, err
	}
	c.UpdatedAt = now
	if err := s.certificates.CreateCertificate(ctx, c); err != nil {
		return nil, err
	}
	s.list.Invalidate(ctx)
	s.logger.Info("certificate created", "certificate_id", c.ID)
	return c, nil
}

// Update overwrites the supplied fields only.
func (s Service) Update(ctx context.Context, id string, input Input) (*domain.Certificate, error) {
	c, err := s.certificates.GetCertificate(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, required := range []*string{input.Title, input.Issuer, input.IssueDate, input.CertificateURL} {
		if required != nil && strings.TrimSpace(*required) == "" {
			return nil, domain.ValidationError(requiredMessage)
		}
	}
	if err := apply(c, input); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()
	if err := s.certificates.UpdateCertificate(ctx, c); err != nil {
		return nil, err
	}
	s.list.Invalidate(ctx)
	s.logger.Info("certificate updated", "certificate_id", c.ID)
	return c, nil
}

// Delete removes a certificate and returns it.
func (s Service) Delete(ctx context.Context, id string) (*domain.Certificate, error) {
	c, err := s.certificates.DeleteCertificate(ctx, id)
	if err != nil {
		return nil, err
	}
	s.list.Invalidate(ctx)
	s.logger.Info("certificate deleted", "certificate_id", c.ID)
	return c, nil
}

func apply(c *domain.Certificate, input Input) error {
	if input.IssueDate != nil {
		issued, err := domain.ParseDate(*input.IssueDate)
		if err != nil {
			return err
		}
		c.IssueDate = issued
	}
	if input.Category != nil {
		category := domain.CertificateCategory(strings.TrimSpace(*input.Category))
		if category == "" {
			category = domain.DefaultCertificateCategory
		}
		if !category.Valid() {
			return domain.ValidationError("Invalid certificate category")
		}
		c.Category = category
	}
	set(&c.Title, input.Title)
	set(&c.Issuer, input.Issuer)
	set(&c.CredentialID, input.CredentialID)
	set(&c.CredentialURL, input.CredentialURL)
	set(&c.CertificateURL, input.CertificateURL)
	set(&c.Description, input.Description)
	return nil
}

func set(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
