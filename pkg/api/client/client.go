package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is used when no API address is configured.
const DefaultBaseURL = "http://localhost:5000"

// Client provides typed access to the portfolio API for interactive tools.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(payload.Message)
}

// User reflects API user payloads.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is returned by register-owner and login.
type Session struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Project mirrors a portfolio project.
type Project struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	ProjectURL  string `json:"projectUrl"`
	Category    string `json:"category"`
}

// Certificate mirrors a certificate record.
type Certificate struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Issuer         string    `json:"issuer"`
	IssueDate      time.Time `json:"issueDate"`
	CertificateURL string    `json:"certificateUrl"`
	Category       string    `json:"category"`
}

// Skill mirrors a skill record.
type Skill struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Level    string `json:"level"`
}

// ContactMessage mirrors a contact form submission.
type ContactMessage struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterOwner bootstraps the owner account.
func (c *Client) RegisterOwner(ctx context.Context, name, email, password, code string) (Session, error) {
	var out Session
	err := c.do(ctx, http.MethodPost, "/api/auth/register-owner", map[string]string{
		"name":             name,
		"email":            email,
		"password":         password,
		"registrationCode": code,
	}, "", &out)
	return out, err
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var out Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "", &out)
	return out, err
}

// Me returns the account behind token.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, token, &out)
	return out, err
}

// ListUsers returns every account. Owner only.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/api/auth/users", nil, token, &out)
	return out, err
}

// CreateUser adds a user-role account. Owner only.
func (c *Client) CreateUser(ctx context.Context, token, name, email, password string) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/create-user", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, token, &out)
	return out.User, err
}

// DeleteUser removes an account. Owner only.
func (c *Client) DeleteUser(ctx context.Context, token, id string) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/auth/delete-user/"+url.PathEscape(id), nil, token, &out)
	return out.User, err
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, "", &out)
	return out, err
}

// ListCertificates returns certificates, newest first.
func (c *Client) ListCertificates(ctx context.Context) ([]Certificate, error) {
	var out []Certificate
	err := c.do(ctx, http.MethodGet, "/api/certificates", nil, "", &out)
	return out, err
}

// ListSkills returns all skills.
func (c *Client) ListSkills(ctx context.Context) ([]Skill, error) {
	var out []Skill
	err := c.do(ctx, http.MethodGet, "/api/skills", nil, "", &out)
	return out, err
}

// ListContacts returns contact messages. token may be empty unless the server runs with strict auth.
func (c *Client) ListContacts(ctx context.Context, token string) ([]ContactMessage, error) {
	var out []ContactMessage
	err := c.do(ctx, http.MethodGet, "/api/contact", nil, token, &out)
	return out, err
}

// MarkContactRead flags a message as read.
func (c *Client) MarkContactRead(ctx context.Context, token, id string) (ContactMessage, error) {
	var out struct {
		Contact ContactMessage `json:"contact"`
	}
	err := c.do(ctx, http.MethodPost, "/api/contact/update/"+url.PathEscape(id), map[string]bool{"read": true}, token, &out)
	return out.Contact, err
}
