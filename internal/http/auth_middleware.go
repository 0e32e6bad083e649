package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
)

type authContextKey string

type authInfo struct {
	UserID string
	Role   domain.Role
}

const contextKeyAuth authContextKey = "portfolio-auth-info"

var (
	errNoToken       = errors.New("no bearer token")
	errMalformedAuth = errors.New("malformed authorization header")
)

type contextSetter interface {
	SetContext(context.Context)
}

// requireAuth verifies the bearer token and binds the caller onto the context.
// A missing token is 401; a token that fails verification is 403.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token, err := bearerToken(req.Header.Get("Authorization"))
		if errors.Is(err, errNoToken) {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}
		if err != nil {
			r.logger.Warn("authorization header invalid", "error", err, "path", req.URL.Path)
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}
		claims, err := r.tokens.Verify(token)
		if err != nil {
			r.logger.Warn("token validation failed", "error", err, "path", req.URL.Path)
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}
		info := authInfo{UserID: claims.UserID, Role: domain.Role(claims.Role)}
		ctx := context.WithValue(req.Context(), contextKeyAuth, info)
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		next(w, req.WithContext(ctx))
	}
}

// requireRole runs requireAuth, then rejects callers without role with
// 403 "Only <role> can <action>".
func (r *Router) requireRole(role domain.Role, action string, next http.HandlerFunc) http.HandlerFunc {
	return r.requireAuth(func(w http.ResponseWriter, req *http.Request) {
		info, ok := authInfoFromContext(req.Context())
		if !ok || info.Role != role {
			writeError(w, http.StatusForbidden, "Only "+string(role)+" can "+action)
			return
		}
		next(w, req)
	})
}

// ownerWhenStrict applies the owner gate only when strict auth is enabled.
func (r *Router) ownerWhenStrict(action string, next http.HandlerFunc) http.HandlerFunc {
	if !r.strictAuth {
		return next
	}
	return r.requireRole(domain.RoleOwner, action, next)
}

// tokenFromQuery lets browser websocket clients, which cannot set headers,
// pass the token as ?token=.
func tokenFromQuery(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") == "" {
			if token := strings.TrimSpace(req.URL.Query().Get("token")); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}
		next(w, req)
	}
}

// authInfoFromContext extracts auth metadata from context.
func authInfoFromContext(ctx context.Context) (authInfo, bool) {
	info, ok := ctx.Value(contextKeyAuth).(authInfo)
	return info, ok
}

func bearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return "", errNoToken
	}
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errMalformedAuth
	}
	return parts[1], nil
}
