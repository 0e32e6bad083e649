package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
	"github.com/Alexander2005-rgb/portfolio/internal/repository"
	"github.com/Alexander2005-rgb/portfolio/internal/repository/memory"
	"github.com/Alexander2005-rgb/portfolio/internal/service/auth"
	"github.com/Alexander2005-rgb/portfolio/internal/service/certificate"
	"github.com/Alexander2005-rgb/portfolio/internal/service/contact"
	"github.com/Alexander2005-rgb/portfolio/internal/service/project"
	"github.com/Alexander2005-rgb/portfolio/internal/service/skill"
	"github.com/Alexander2005-rgb/portfolio/internal/storage"
	"github.com/Alexander2005-rgb/portfolio/internal/ws"
	jwtpkg "github.com/Alexander2005-rgb/portfolio/pkg/jwt"
)

const registrationCode = "bootstrap-code"

type testEnv struct {
	router *Router
	store  *memory.Store
	tokens *jwtpkg.Issuer
	hub    *ws.Hub
}

type setupOption func(*Options)

func withStrictAuth(o *Options) { o.StrictAuth = true }

func setupRouter(t *testing.T, opts ...setupOption) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := jwtpkg.NewIssuer("router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	store := memory.New()
	services := Services{
		Auth:         auth.New(store, tokens, registrationCode, log),
		Projects:     project.New(store, nil, time.Minute, log),
		Certificates: certificate.New(store, nil, time.Minute, log),
		Skills:       skill.New(store, nil, time.Minute, log),
		Contacts:     contact.New(store, hub, ws.TopicContact, log),
	}
	reg := prometheus.NewRegistry()
	options := Options{
		Tokens:         tokens,
		Hub:            hub,
		AllowedOrigins: []string{"http://localhost:3000"},
		Registerer:     reg,
		Gatherer:       reg,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &testEnv{
		router: NewRouter(log, services, options),
		store:  store,
		tokens: tokens,
		hub:    hub,
	}
}

func (e *testEnv) token(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := e.tokens.Issue("user-"+string(role), string(role))
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func expectMessage(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rr.Code, rr.Body.String())
	}
	body := decodeBody[map[string]any](t, rr)
	if body["message"] != message {
		t.Fatalf("expected message %q, got %v", message, body["message"])
	}
}

var projectBody = map[string]string{
	"title":       "Portfolio",
	"description": "Personal site",
	"imageUrl":    "https://img.example.com/p.png",
	"projectUrl":  "https://example.com",
}

func TestHealth(t *testing.T) {
	env := setupRouter(t)
	rr := env.do(t, http.MethodGet, "/api/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := decodeBody[map[string]any](t, rr); body["status"] != "API is running" {
		t.Fatalf("unexpected status %v", body["status"])
	}

	down := setupRouter(t, func(o *Options) {
		o.DBHealth = func(context.Context) error { return errors.New("connection refused") }
	})
	rr = down.do(t, http.MethodGet, "/api/health", "", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when database is down, got %d", rr.Code)
	}
}

func TestOwnerBootstrapFlow(t *testing.T) {
	env := setupRouter(t)
	register := map[string]string{
		"name":             "Alex",
		"email":            "alex@example.com",
		"password":         "secret1",
		"registrationCode": registrationCode,
	}

	rr := env.do(t, http.MethodPost, "/api/auth/register-owner", "", register)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	created := decodeBody[struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}](t, rr)
	if created.Token == "" || created.User["role"] != "owner" {
		t.Fatalf("unexpected register response %s", rr.Body.String())
	}
	if _, leaked := created.User["passwordHash"]; leaked {
		t.Fatalf("password hash must never be returned")
	}

	rr = env.do(t, http.MethodPost, "/api/auth/register-owner", "", register)
	expectMessage(t, rr, http.StatusBadRequest, "Owner account already exists. Use login instead.")

	rr = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alex@example.com", "password": "nope"})
	expectMessage(t, rr, http.StatusBadRequest, "Invalid email or password")

	rr = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alex@example.com", "password": "secret1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected login 200, got %d", rr.Code)
	}
	login := decodeBody[struct {
		Token string `json:"token"`
	}](t, rr)

	rr = env.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected me 200, got %d", rr.Code)
	}
	if me := decodeBody[map[string]any](t, rr); me["email"] != "alex@example.com" {
		t.Fatalf("unexpected me payload %v", me)
	}
}

func TestRegisterOwnerRejectsBadCode(t *testing.T) {
	env := setupRouter(t)
	rr := env.do(t, http.MethodPost, "/api/auth/register-owner", "", map[string]string{
		"name": "Alex", "email": "alex@example.com", "password": "secret1", "registrationCode": "guess",
	})
	expectMessage(t, rr, http.StatusBadRequest, "Invalid registration code")
}

func TestRegisterOwnerRejectsOverlongPassword(t *testing.T) {
	env := setupRouter(t)
	rr := env.do(t, http.MethodPost, "/api/auth/register-owner", "", map[string]string{
		"name": "Alex", "email": "alex@example.com", "password": strings.Repeat("a", 80), "registrationCode": registrationCode,
	})
	expectMessage(t, rr, http.StatusBadRequest, "Password must be at most 72 bytes")
}

func TestMeUnknownUser(t *testing.T) {
	env := setupRouter(t)
	rr := env.do(t, http.MethodGet, "/api/auth/me", env.token(t, domain.RoleUser), nil)
	expectMessage(t, rr, http.StatusNotFound, "User not found")
}

func TestUserManagementRequiresOwner(t *testing.T) {
	env := setupRouter(t)
	owner := env.token(t, domain.RoleOwner)

	rr := env.do(t, http.MethodGet, "/api/auth/users", env.token(t, domain.RoleUser), nil)
	expectMessage(t, rr, http.StatusForbidden, "Only owner can view users")

	rr = env.do(t, http.MethodPost, "/api/auth/create-user", owner, map[string]string{"name": "Sam", "email": "sam@example.com"})
	expectMessage(t, rr, http.StatusBadRequest, "Name, email, and password are required")

	rr = env.do(t, http.MethodPost, "/api/auth/create-user", owner, map[string]string{"name": "Sam", "email": "sam@example.com", "password": "123456"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	created := decodeBody[struct {
		User domain.User `json:"user"`
	}](t, rr)

	rr = env.do(t, http.MethodGet, "/api/auth/users", owner, nil)
	if users := decodeBody[[]map[string]any](t, rr); len(users) != 1 {
		t.Fatalf("expected one user, got %d", len(users))
	}

	rr = env.do(t, http.MethodDelete, "/api/auth/delete-user/"+created.User.ID, owner, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodDelete, "/api/auth/delete-user/"+created.User.ID, owner, nil)
	expectMessage(t, rr, http.StatusNotFound, "User not found")
}

func TestProjectMutationsRequireOwner(t *testing.T) {
	env := setupRouter(t)

	rr := env.do(t, http.MethodPost, "/api/projects/add", "", projectBody)
	expectMessage(t, rr, http.StatusUnauthorized, "No token provided")

	rr = env.do(t, http.MethodPost, "/api/projects/add", "not-a-jwt", projectBody)
	expectMessage(t, rr, http.StatusForbidden, "Invalid token")

	rr = env.do(t, http.MethodPost, "/api/projects/add", env.token(t, domain.RoleUser), projectBody)
	expectMessage(t, rr, http.StatusForbidden, "Only owner can add projects")

	rr = env.do(t, http.MethodPost, "/api/projects/add", env.token(t, domain.RoleOwner), projectBody)
	expectMessage(t, rr, http.StatusCreated, "Project added!")

	projects, _ := env.store.ListProjects(context.Background())
	if len(projects) != 1 || projects[0].Category != domain.ProjectCategoryReact {
		t.Fatalf("expected one React project, got %+v", projects)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	env := setupRouter(t)
	stale := env.tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	token, err := stale.Issue("owner-1", "owner")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rr := env.do(t, http.MethodDelete, "/api/projects/anything", token, nil)
	expectMessage(t, rr, http.StatusForbidden, "Invalid token")
}

func TestCreateWithMissingFieldPersistsNothing(t *testing.T) {
	env := setupRouter(t)
	body := map[string]string{"title": "x", "description": "y", "imageUrl": "z"}

	rr := env.do(t, http.MethodPost, "/api/projects/add", env.token(t, domain.RoleOwner), body)
	expectMessage(t, rr, http.StatusBadRequest, "All fields are required")

	rr = env.do(t, http.MethodGet, "/api/projects", "", nil)
	if list := decodeBody[[]domain.Project](t, rr); len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}

func TestProjectUpdateAndDelete(t *testing.T) {
	env := setupRouter(t)
	owner := env.token(t, domain.RoleOwner)
	var ids []string
	for i := 0; i < 2; i++ {
		rr := env.do(t, http.MethodPost, "/api/projects/add", owner, projectBody)
		created := decodeBody[struct {
			Project domain.Project `json:"project"`
		}](t, rr)
		ids = append(ids, created.Project.ID)
	}

	rr := env.do(t, http.MethodPost, "/api/projects/update/"+ids[0], owner, map[string]string{"title": "Renamed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	updated := decodeBody[struct {
		Project domain.Project `json:"project"`
	}](t, rr)
	if updated.Project.Title != "Renamed" || updated.Project.Description != "Personal site" {
		t.Fatalf("unexpected merge result %+v", updated.Project)
	}

	rr = env.do(t, http.MethodDelete, "/api/projects/missing", owner, nil)
	expectMessage(t, rr, http.StatusNotFound, "Project not found")

	rr = env.do(t, http.MethodDelete, "/api/projects/"+ids[1], owner, nil)
	deleted := decodeBody[struct {
		Message string         `json:"message"`
		Project domain.Project `json:"project"`
	}](t, rr)
	if deleted.Message != "Project deleted." || deleted.Project.ID != ids[1] {
		t.Fatalf("unexpected delete response %s", rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/api/projects", "", nil)
	list := decodeBody[[]domain.Project](t, rr)
	if len(list) != 1 || list[0].ID != ids[0] {
		t.Fatalf("expected only first project to remain, got %+v", list)
	}

	rr = env.do(t, http.MethodGet, "/api/projects/"+ids[1], "", nil)
	expectMessage(t, rr, http.StatusNotFound, "Project not found")
}

func TestCertificatesOrderedByIssueDate(t *testing.T) {
	env := setupRouter(t)
	owner := env.token(t, domain.RoleOwner)
	for _, c := range []struct{ title, date string }{{"first", "2020-01-01"}, {"latest", "2024-09-01"}, {"middle", "2022-03-15"}} {
		rr := env.do(t, http.MethodPost, "/api/certificates/add", owner, map[string]string{
			"title": c.title, "issuer": "Issuer", "issueDate": c.date, "certificateUrl": "https://c.example.com/" + c.title,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rr.Code, rr.Body.String())
		}
	}

	rr := env.do(t, http.MethodGet, "/api/certificates", "", nil)
	list := decodeBody[[]domain.Certificate](t, rr)
	got := []string{list[0].Title, list[1].Title, list[2].Title}
	if strings.Join(got, ",") != "latest,middle,first" {
		t.Fatalf("unexpected order %v", got)
	}

	rr = env.do(t, http.MethodPost, "/api/certificates/add", owner, map[string]string{"title": "x"})
	expectMessage(t, rr, http.StatusBadRequest, "Title, issuer, issue date, and certificate URL are required")

	rr = env.do(t, http.MethodPost, "/api/certificates/update/"+list[0].ID, env.token(t, domain.RoleUser), map[string]string{"title": "x"})
	expectMessage(t, rr, http.StatusForbidden, "Only owner can update certificates")
}

func TestSkillsAndContactOpenByDefault(t *testing.T) {
	env := setupRouter(t)

	rr := env.do(t, http.MethodPost, "/api/skills/add", "", map[string]string{"name": "Go", "category": "Backend", "icon": "🐹", "level": "Expert"})
	expectMessage(t, rr, http.StatusCreated, "Skill added!")

	rr = env.do(t, http.MethodPost, "/api/contact/add", "", map[string]string{"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello"})
	expectMessage(t, rr, http.StatusCreated, "Message received! I will get back to you soon.")

	rr = env.do(t, http.MethodGet, "/api/contact", "", nil)
	if list := decodeBody[[]domain.ContactMessage](t, rr); len(list) != 1 {
		t.Fatalf("expected one message, got %d", len(list))
	}
}

func TestStrictAuthGatesSkillsAndContact(t *testing.T) {
	env := setupRouter(t, withStrictAuth)

	rr := env.do(t, http.MethodPost, "/api/skills/add", "", map[string]string{"name": "Go"})
	expectMessage(t, rr, http.StatusUnauthorized, "No token provided")

	rr = env.do(t, http.MethodGet, "/api/contact", env.token(t, domain.RoleUser), nil)
	expectMessage(t, rr, http.StatusForbidden, "Only owner can view messages")

	rr = env.do(t, http.MethodPost, "/api/contact/add", "", map[string]string{"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("contact submission must stay public, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/api/skills", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("skill reads stay public, got %d", rr.Code)
	}
}

func TestContactUpdateDefaultsToRead(t *testing.T) {
	env := setupRouter(t)
	rr := env.do(t, http.MethodPost, "/api/contact/add", "", map[string]string{"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello"})
	created := decodeBody[struct {
		Contact domain.ContactMessage `json:"contact"`
	}](t, rr)

	rr = env.do(t, http.MethodPost, "/api/contact/update/"+created.Contact.ID, "", nil)
	updated := decodeBody[struct {
		Contact domain.ContactMessage `json:"contact"`
	}](t, rr)
	if !updated.Contact.Read {
		t.Fatalf("expected message marked read")
	}

	rr = env.do(t, http.MethodPost, "/api/contact/update/"+created.Contact.ID, "", map[string]bool{"read": false})
	updated = decodeBody[struct {
		Contact domain.ContactMessage `json:"contact"`
	}](t, rr)
	if !updated.Contact.Read {
		t.Fatalf("read flag must not be cleared")
	}

	rr = env.do(t, http.MethodDelete, "/api/contact/nope", "", nil)
	expectMessage(t, rr, http.StatusNotFound, "Contact not found")
}

func TestInvalidJSONBody(t *testing.T) {
	env := setupRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/contact/add", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	expectMessage(t, rr, http.StatusBadRequest, "Invalid JSON body")
}

type stubUploader struct{}

func (stubUploader) PresignPut(_ context.Context, filename, contentType string) (storage.Upload, error) {
	return storage.Upload{UploadURL: "https://s3.example.com/put", ObjectKey: "uploads/" + filename}, nil
}

func TestPresignUpload(t *testing.T) {
	env := setupRouter(t)
	owner := env.token(t, domain.RoleOwner)
	body := map[string]string{"filename": "a.png", "contentType": "image/png"}

	rr := env.do(t, http.MethodPost, "/api/uploads/presign", owner, body)
	expectMessage(t, rr, http.StatusServiceUnavailable, "Uploads are not configured")

	enabled := setupRouter(t, func(o *Options) { o.Uploader = stubUploader{} })
	rr = enabled.do(t, http.MethodPost, "/api/uploads/presign", enabled.token(t, domain.RoleOwner), body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if upload := decodeBody[storage.Upload](t, rr); upload.ObjectKey != "uploads/a.png" {
		t.Fatalf("unexpected upload %+v", upload)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/projects/add", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}
}

func TestMetricsExposed(t *testing.T) {
	env := setupRouter(t)
	env.do(t, http.MethodGet, "/api/projects", "", nil)

	rr := env.do(t, http.MethodGet, "/api/metrics", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `portfolio_api_http_requests_total{method="GET",route="GET /api/projects",status="200"} 1`) {
		t.Fatalf("request counter missing from metrics output:\n%s", rr.Body.String())
	}
}

func TestContactStreamReceivesNewMessages(t *testing.T) {
	env := setupRouter(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/contact/stream?token=" + env.token(t, domain.RoleOwner)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Subscribers(ws.TopicContact) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	rr := env.do(t, http.MethodPost, "/api/contact/add", "", map[string]string{"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg domain.ContactMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Name != "Ada" || msg.Subject != "Hi" {
		t.Fatalf("unexpected streamed message %+v", msg)
	}
}

func TestContactStreamRequiresOwner(t *testing.T) {
	env := setupRouter(t)
	rr := env.do(t, http.MethodGet, "/api/contact/stream", env.token(t, domain.RoleUser), nil)
	expectMessage(t, rr, http.StatusForbidden, "Only owner can stream messages")
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.ValidationError("All fields are required"), http.StatusBadRequest, "All fields are required"},
		{repository.ErrNotFound, http.StatusNotFound, "Skill not found"},
		{auth.ErrOwnerExists, http.StatusBadRequest, "Owner account already exists. Use login instead."},
		{auth.ErrInvalidRegistrationCode, http.StatusBadRequest, "Invalid registration code"},
		{fmt.Errorf("register: %w", auth.ErrEmailTaken), http.StatusBadRequest, "Email already registered"},
		{auth.ErrInvalidCredentials, http.StatusBadRequest, "Invalid email or password"},
		{auth.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{storage.ErrDisabled, http.StatusServiceUnavailable, "Uploads are not configured"},
		{errors.New("pool exhausted"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		status, msg := statusForError(tc.err, "Skill")
		if status != tc.status || msg != tc.msg {
			t.Errorf("statusForError(%v) = %d %q, want %d %q", tc.err, status, msg, tc.status, tc.msg)
		}
	}
}

func TestBearerToken(t *testing.T) {
	if _, err := bearerToken(""); !errors.Is(err, errNoToken) {
		t.Fatalf("empty header should be missing token, got %v", err)
	}
	if _, err := bearerToken("Bearer"); !errors.Is(err, errNoToken) {
		t.Fatalf("scheme without token should be missing token, got %v", err)
	}
	if _, err := bearerToken("Basic abc"); !errors.Is(err, errMalformedAuth) {
		t.Fatalf("non bearer scheme should be malformed, got %v", err)
	}
	if token, err := bearerToken("bearer abc"); err != nil || token != "abc" {
		t.Fatalf("unexpected result %q %v", token, err)
	}
}
