// Package http exposes the dashboard's JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/auth"
	"horizon/internal/domain/identity"
	"horizon/internal/domain/user"
)

// AuthService is the orchestrator surface the auth handler needs.
type AuthService interface {
	SignUp(ctx context.Context, params auth.SignUpParams) (*user.User, string, error)
	SignIn(ctx context.Context, email, password string) (*user.User, string, error)
	CurrentUser(ctx context.Context, secret string) (*user.User, error)
	Logout(ctx context.Context, secret string)
}

type AuthHandler struct {
	service    AuthService
	cookieName string
	maxAge     int
}

func NewAuthHandler(service AuthService, cookieName string, maxAge int) *AuthHandler {
	return &AuthHandler{
		service:    service,
		cookieName: cookieName,
		maxAge:     maxAge,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignUp creates a new account and logs the user in.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req auth.SignUpParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		http.Error(w, "Email, password, first name and last name are required", http.StatusBadRequest)
		return
	}

	newUser, secret, err := h.service.SignUp(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailTaken):
			http.Error(w, "An account with this email already exists", http.StatusConflict)
		case errors.Is(err, auth.ErrPaymentsCustomer):
			log.Printf("Sign-up failed at payments step: %v", err)
			http.Error(w, "Failed to set up payments profile", http.StatusBadGateway)
		default:
			log.Printf("Sign-up failed: %v", err)
			http.Error(w, "Failed to create account", http.StatusInternalServerError)
		}
		return
	}

	h.setSessionCookie(w, r, secret)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newUser)
}

// HandleSignIn authenticates with email and password.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	u, secret, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		log.Printf("Sign-in failed: %v", err)
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, r, secret)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

// HandleMe returns the logged-in user, or a JSON null when no valid session
// exists. An anonymous visitor is not an error.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	var secret string
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		secret = cookie.Value
	}

	u, err := h.service.CurrentUser(r.Context(), secret)
	if err != nil {
		log.Printf("Failed to resolve current user: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

// HandleLogout destroys the session and clears the cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		h.service.Logout(r.Context(), cookie.Value)
	}

	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	// Clear the cookie by setting MaxAge to -1
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// setSessionCookie sets the opaque session secret as an HttpOnly cookie.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, secret string) {
	// Only set Secure flag when actually using HTTPS
	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    secret,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   h.maxAge,
	})
}
