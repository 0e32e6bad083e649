// Package memory provides an in-process repository used by tests and local tooling.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
	"github.com/Alexander2005-rgb/portfolio/internal/repository"
)

// Store keeps every collection in insertion order behind one mutex.
type Store struct {
	mu           sync.Mutex
	users        []domain.User
	projects     []domain.Project
	certificates []domain.Certificate
	skills       []domain.Skill
	contacts     []domain.ContactMessage
}

var (
	_ repository.UserRepository        = (*Store)(nil)
	_ repository.ProjectRepository     = (*Store)(nil)
	_ repository.CertificateRepository = (*Store)(nil)
	_ repository.SkillRepository       = (*Store)(nil)
	_ repository.ContactRepository     = (*Store)(nil)
)

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

func get[T any](items []T, id string, key func(T) string) (*T, error) {
	i := indexOf(items, id, key)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	item := items[i]
	return &item, nil
}

func replace[T any](items []T, item T, key func(T) string) error {
	i := indexOf(items, key(item), key)
	if i < 0 {
		return repository.ErrNotFound
	}
	items[i] = item
	return nil
}

func remove[T any](items []T, id string, key func(T) string) ([]T, *T, error) {
	i := indexOf(items, id, key)
	if i < 0 {
		return items, nil, repository.ErrNotFound
	}
	item := items[i]
	return append(items[:i:i], items[i+1:]...), &item, nil
}

func userKey(u domain.User) string               { return u.ID }
func projectKey(p domain.Project) string         { return p.ID }
func certificateKey(c domain.Certificate) string { return c.ID }
func skillKey(s domain.Skill) string             { return s.ID }
func contactKey(c domain.ContactMessage) string  { return c.ID }

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if user.Role == domain.RoleOwner && existing.Role == domain.RoleOwner {
			return repository.ErrOwnerExists
		}
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.users, email, func(u domain.User) string { return u.Email })
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.users, id, userKey)
}

func (s *Store) OwnerExists(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.IsOwner() {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.User{}, s.users...), nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		user *domain.User
		err  error
	)
	s.users, user, err = remove(s.users, id, userKey)
	return user, err
}

func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Project{}, s.projects...), nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.projects, id, projectKey)
}

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, *p)
	return nil
}

func (s *Store) UpdateProject(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.projects, *p, projectKey)
}

func (s *Store) DeleteProject(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		p   *domain.Project
		err error
	)
	s.projects, p, err = remove(s.projects, id, projectKey)
	return p, err
}

func (s *Store) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.Certificate{}, s.certificates...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IssueDate.After(out[j].IssueDate)
	})
	return out, nil
}

func (s *Store) GetCertificate(ctx context.Context, id string) (*domain.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.certificates, id, certificateKey)
}

func (s *Store) CreateCertificate(ctx context.Context, c *domain.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certificates = append(s.certificates, *c)
	return nil
}

func (s *Store) UpdateCertificate(ctx context.Context, c *domain.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.certificates, *c, certificateKey)
}

func (s *Store) DeleteCertificate(ctx context.Context, id string) (*domain.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		c   *domain.Certificate
		err error
	)
	s.certificates, c, err = remove(s.certificates, id, certificateKey)
	return c, err
}

func (s *Store) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Skill{}, s.skills...), nil
}

func (s *Store) GetSkill(ctx context.Context, id string) (*domain.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.skills, id, skillKey)
}

func (s *Store) CreateSkill(ctx context.Context, sk *domain.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills = append(s.skills, *sk)
	return nil
}

func (s *Store) UpdateSkill(ctx context.Context, sk *domain.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.skills, *sk, skillKey)
}

func (s *Store) DeleteSkill(ctx context.Context, id string) (*domain.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		sk  *domain.Skill
		err error
	)
	s.skills, sk, err = remove(s.skills, id, skillKey)
	return sk, err
}

func (s *Store) ListContacts(ctx context.Context) ([]domain.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ContactMessage{}, s.contacts...), nil
}

func (s *Store) GetContact(ctx context.Context, id string) (*domain.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return get(s.contacts, id, contactKey)
}

func (s *Store) CreateContact(ctx context.Context, c *domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, *c)
	return nil
}

func (s *Store) UpdateContact(ctx context.Context, c *domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.contacts, *c, contactKey)
}

func (s *Store) DeleteContact(ctx context.Context, id string) (*domain.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		c   *domain.ContactMessage
		err error
	)
	s.contacts, c, err = remove(s.contacts, id, contactKey)
	return c, err
}
