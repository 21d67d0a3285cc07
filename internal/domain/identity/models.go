// Package identity owns authentication credentials and sessions. Profile
// data lives in the user directory; this package only ever sees the email,
// password hash and display name.
package identity

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrSessionInvalid     = errors.New("session invalid")
	ErrSessionExpired     = errors.New("session expired")
)

// Identity is the credential record created at sign-up.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is the server-side source of truth for a logged-in client. The
// cookie carries only the opaque secret; we store its SHA-256 hash.
type Session struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identityId"`
	TokenHash  string    `json:"-"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateIdentityParams contains parameters for creating an identity record.
type CreateIdentityParams struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
}
