package contact

import (
	"context"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
	"github.com/Alexander2005-rgb/portfolio/internal/repository"
)

// Input carries the public contact form.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Publisher fans new messages out to live listeners.
type Publisher interface {
	Publish(topic string, v any)
}

// Service manages contact messages.
type Service struct {
	contacts  repository.ContactRepository
	publisher Publisher
	topic     string
	logger    *slog.Logger
	now       func() time.Time
}

// New returns a contact service. publisher may be nil.
func New(contacts repository.ContactRepository, publisher Publisher, topic string, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{
		contacts:  contacts,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s Service) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.contacts.ListContacts(ctx)
}

func (s Service) Get(ctx context.Context, id string) (*domain.ContactMessage, error) {
	return s.contacts.GetContact(ctx, id)
}

// Submit stores a message from the public form and notifies live listeners.
func (s Service) Submit(ctx context.Context, input Input) (*domain.ContactMessage, error) {
	if err := domain.RequireFields("All fields are required", input.Name, input.Email, input.Subject, input.Message); err != nil {
		return nil, err
	}
	now := s.now()
	msg := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   strings.TrimSpace(input.Message),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.CreateContact(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Info("contact message received", "contact_id", msg.ID)
	if s.publisher != nil {
		s.publisher.Publish(s.topic, msg)
	}
	return msg, nil
}

// MarkRead sets the read flag. A false value never clears an already read message.
func (s Service) MarkRead(ctx context.Context, id string, read bool) (*domain.ContactMessage, error) {
	msg, err := s.contacts.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.Read = read || msg.Read
	msg.UpdatedAt = s.now()
	if err := s.contacts.UpdateContact(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s Service) Delete(ctx context.Context, id string) (*domain.ContactMessage, error) {
	msg, err := s.contacts.DeleteContact(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("contact message deleted", "contact_id", msg.ID)
	return msg, nil
}
