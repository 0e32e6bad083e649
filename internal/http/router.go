package httpx

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
	"github.com/Alexander2005-rgb/portfolio/internal/service/auth"
	"github.com/Alexander2005-rgb/portfolio/internal/service/certificate"
	"github.com/Alexander2005-rgb/portfolio/internal/service/contact"
	"github.com/Alexander2005-rgb/portfolio/internal/service/project"
	"github.com/Alexander2005-rgb/portfolio/internal/service/skill"
	"github.com/Alexander2005-rgb/portfolio/internal/storage"
	"github.com/Alexander2005-rgb/portfolio/internal/ws"
	jwtpkg "github.com/Alexander2005-rgb/portfolio/pkg/jwt"
)

const healthCheckTimeout = 2 * time.Second

// Services groups the business services exposed over HTTP.
type Services struct {
	Auth         auth.Service
	Projects     project.Service
	Certificates certificate.Service
	Skills       skill.Service
	Contacts     contact.Service
}

// Uploader presigns object uploads.
type Uploader interface {
	PresignPut(ctx context.Context, filename, contentType string) (storage.Upload, error)
}

// Options carries router dependencies that are not services.
type Options struct {
	Tokens *jwtpkg.Issuer
	// Hub receives contact stream subscribers. Nil disables the stream route.
	Hub *ws.Hub
	// Uploader may be nil; the presign route then answers 503.
	Uploader       Uploader
	DBHealth       func(context.Context) error
	StrictAuth     bool
	AllowedOrigins []string
	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Router wires HTTP endpoints to services.
type Router struct {
	mux        *http.ServeMux
	handler    http.Handler
	logger     *slog.Logger
	services   Services
	tokens     *jwtpkg.Issuer
	hub        *ws.Hub
	uploader   Uploader
	dbHealth   func(context.Context) error
	strictAuth bool
	origins    []string
	upgrader   websocket.Upgrader
	metrics    *metrics
	gatherer   prometheus.Gatherer
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, services Services, opts Options) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r := &Router{
		mux:        http.NewServeMux(),
		logger:     logger,
		services:   services,
		tokens:     opts.Tokens,
		hub:        opts.Hub,
		uploader:   opts.Uploader,
		dbHealth:   opts.DBHealth,
		strictAuth: opts.StrictAuth,
		origins:    opts.AllowedOrigins,
		metrics:    newMetrics(reg),
		gatherer:   gatherer,
	}
	r.upgrader = websocket.Upgrader{CheckOrigin: r.checkOrigin}
	r.register()
	r.handler = cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(r.mux)
	return r
}

// ServeHTTP delegates to the CORS-wrapped mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) register() {
	owner := func(action string, h http.HandlerFunc) http.HandlerFunc {
		return r.requireRole(domain.RoleOwner, action, h)
	}

	r.handle("GET /api/health", r.handleHealth)
	r.mux.Handle("GET /api/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))

	r.handle("POST /api/auth/register-owner", r.handleRegisterOwner)
	r.handle("POST /api/auth/login", r.handleLogin)
	r.handle("GET /api/auth/me", r.requireAuth(r.handleMe))
	r.handle("POST /api/auth/create-user", owner("create users", r.handleCreateUser))
	r.handle("DELETE /api/auth/delete-user/{id}", owner("delete users", r.handleDeleteUser))
	r.handle("GET /api/auth/users", owner("view users", r.handleListUsers))

	r.handle("GET /api/projects", r.handleListProjects)
	r.handle("GET /api/projects/{id}", r.handleGetProject)
	r.handle("POST /api/projects/add", owner("add projects", r.handleCreateProject))
	r.handle("POST /api/projects/update/{id}", owner("update projects", r.handleUpdateProject))
	r.handle("DELETE /api/projects/{id}", owner("delete projects", r.handleDeleteProject))

	r.handle("GET /api/certificates", r.handleListCertificates)
	r.handle("GET /api/certificates/{id}", r.handleGetCertificate)
	r.handle("POST /api/certificates/add", owner("add certificates", r.handleCreateCertificate))
	r.handle("POST /api/certificates/update/{id}", owner("update certificates", r.handleUpdateCertificate))
	r.handle("DELETE /api/certificates/{id}", owner("delete certificates", r.handleDeleteCertificate))

	r.handle("GET /api/skills", r.handleListSkills)
	r.handle("GET /api/skills/{id}", r.handleGetSkill)
	r.handle("POST /api/skills/add", r.ownerWhenStrict("add skills", r.handleCreateSkill))
	r.handle("POST /api/skills/update/{id}", r.ownerWhenStrict("update skills", r.handleUpdateSkill))
	r.handle("DELETE /api/skills/{id}", r.ownerWhenStrict("delete skills", r.handleDeleteSkill))

	r.handle("GET /api/contact", r.ownerWhenStrict("view messages", r.handleListContacts))
	r.handle("GET /api/contact/{id}", r.ownerWhenStrict("view messages", r.handleGetContact))
	r.handle("POST /api/contact/add", r.handleCreateContact)
	r.handle("POST /api/contact/update/{id}", r.ownerWhenStrict("update messages", r.handleUpdateContact))
	r.handle("DELETE /api/contact/{id}", r.ownerWhenStrict("delete messages", r.handleDeleteContact))
	if r.hub != nil {
		r.handle("GET /api/contact/stream", tokenFromQuery(owner("stream messages", r.handleContactStream)))
	}

	r.handle("POST /api/uploads/presign", owner("upload files", r.handlePresignUpload))
}

func (r *Router) handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, r.audit(h))
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	components := make(map[string]any)
	status := "API is running"
	code := http.StatusOK
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (r *Router) checkOrigin(req *http.Request) bool {
	origin := req.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range r.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// audit logs one line per request and records metrics under the matched pattern.
func (r *Router) audit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		route := req.Pattern
		if route == "" {
			route = req.URL.Path
		}
		r.metrics.observe(req.Method, route, status, duration)

		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if info, ok := authInfoFromContext(ctx); ok {
			fields = append(fields, "user_id", info.UserID, "role", string(info.Role))
		}

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		// upgraded connections report 101 in the access log
		sr.status = http.StatusSwitchingProtocols
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}
