package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Alexander2005-rgb/portfolio/internal/domain"
	"github.com/Alexander2005-rgb/portfolio/internal/repository"
	"github.com/Alexander2005-rgb/portfolio/internal/service/auth"
	"github.com/Alexander2005-rgb/portfolio/internal/storage"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid json body")

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends {"message": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, req *http.Request, dst any) error {
	body := http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// statusForError maps service errors onto a status and client-facing message.
// resource names the record type for not-found messages, e.g. "Project".
func statusForError(err error, resource string) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "Invalid JSON body"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, domain.ValidationMessage(err)
	case errors.Is(err, auth.ErrOwnerExists):
		return http.StatusBadRequest, "Owner account already exists. Use login instead."
	case errors.Is(err, auth.ErrInvalidRegistrationCode):
		return http.StatusBadRequest, "Invalid registration code"
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid email or password"
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, resource + " not found"
	case errors.Is(err, storage.ErrDisabled):
		return http.StatusServiceUnavailable, "Uploads are not configured"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// fail writes the mapped error and logs anything unexpected.
func (r *Router) fail(w http.ResponseWriter, req *http.Request, err error, resource string) {
	status, msg := statusForError(err, resource)
	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed", "error", err, "path", req.URL.Path)
	}
	writeError(w, status, msg)
}
