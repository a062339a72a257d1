package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eventboard/server/internal/api/middleware"
	"github.com/eventboard/server/internal/api/problem"
	"github.com/eventboard/server/internal/auth"
	"github.com/eventboard/server/internal/domain/users"
)

type AuthHandler struct {
	Users      *users.Service
	JWTManager *auth.JWTManager
	Env        string
}

func NewAuthHandler(service *users.Service, jwtManager *auth.JWTManager, env string) *AuthHandler {
	return &AuthHandler{Users: service, JWTManager: jwtManager, Env: env}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expires_at"`
	User      userInfo `json:"user"`
}

type userInfo struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	_, err := h.Users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		var fieldErr users.FieldError
		switch {
		case errors.As(err, &fieldErr):
			problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", err, h.Env)
		case errors.Is(err, users.ErrEmailTaken):
			problem.Write(w, r, http.StatusConflict, "https://eventboard.dev/problems/conflict", "Email already registered", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, "https://eventboard.dev/problems/server-error", "Server error", err, h.Env)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Login verifies credentials and issues the session token both as an
// HttpOnly cookie for browser clients and in the body for bearer use.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Invalid credentials", nil, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, "https://eventboard.dev/problems/server-error", "Server error", err, h.Env)
		return
	}

	token, err := h.JWTManager.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://eventboard.dev/problems/server-error", "Server error", err, h.Env)
		return
	}

	expiresAt := time.Now().Add(h.JWTManager.Expiry())
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User: userInfo{
			ID:    user.ID,
			Email: user.Email,
			Role:  string(user.Role),
		},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me reports the identity embedded in the verified credential. It does not
// consult the identity store, so it reflects the state at login.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	if actor == nil {
		problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Unauthorized", problem.ErrUnauthorized, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, userInfo{
		ID:    actor.ID,
		Email: actor.Email,
		Role:  string(actor.Role),
	})
}
