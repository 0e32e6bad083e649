package httpx

import (
	"net/http"

	"github.com/Alexander2005-rgb/portfolio/internal/service/auth"
)

func (r *Router) handleRegisterOwner(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Name             string `json:"name"`
		Email            string `json:"email"`
		Password         string `json:"password"`
		RegistrationCode string `json:"registrationCode"`
	}
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "User")
		return
	}
	session, err := r.services.Auth.RegisterOwner(req.Context(), auth.RegisterInput{
		Name:             payload.Name,
		Email:            payload.Email,
		Password:         payload.Password,
		RegistrationCode: payload.RegistrationCode,
	})
	if err != nil {
		r.fail(w, req, err, "User")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Owner registered successfully",
		"token":   session.Token,
		"user":    session.User,
	})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "User")
		return
	}
	session, err := r.services.Auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		r.fail(w, req, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   session.Token,
		"user":    session.User,
	})
}

func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	info, _ := authInfoFromContext(req.Context())
	user, err := r.services.Auth.Me(req.Context(), info.UserID)
	if err != nil {
		r.fail(w, req, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (r *Router) handleCreateUser(w http.ResponseWriter, req *http.Request) {
	var payload auth.CreateUserInput
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "User")
		return
	}
	user, err := r.services.Auth.CreateUser(req.Context(), payload)
	if err != nil {
		r.fail(w, req, err, "User")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully by owner",
		"user":    user,
	})
}

func (r *Router) handleDeleteUser(w http.ResponseWriter, req *http.Request) {
	user, err := r.services.Auth.DeleteUser(req.Context(), req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User deleted successfully",
		"user":    user,
	})
}

func (r *Router) handleListUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.services.Auth.ListUsers(req.Context())
	if err != nil {
		r.fail(w, req, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, users)
}
