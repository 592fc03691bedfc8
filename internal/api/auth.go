package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/confdesk/confdesk/internal/auth"
	"github.com/confdesk/confdesk/pkg/models"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	authn *auth.PasswordAuthenticator
	jwt   *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authn *auth.PasswordAuthenticator, jwt *auth.JWTManager) *AuthHandler {
	return &AuthHandler{authn: authn, jwt: jwt}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "email and name are required")
		return
	}

	user, err := h.authn.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrEmailExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			slog.Error("Registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	h.writeSession(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.authn.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	h.writeSession(w, http.StatusOK, user)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, status int, user *models.User) {
	token, err := h.jwt.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, status, sessionResponse{Token: token, User: user})
}
