package handler

import (
	"net/http"
	"time"

	"book-sanctuary/internal/domain"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService domain.AuthService
	logger      domain.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService domain.AuthService, logger domain.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type signInRequest struct {
	// Credential is a Google ID token or a Supabase access token.
	Credential string `json:"credential"`
}

type signInResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// SignIn exchanges an identity provider credential for a session token
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	sess, user, err := h.authService.SignIn(r.Context(), req.Credential)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, signInResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      user,
	})
}

// Me returns the signed-in user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), sess)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
