package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"horizon/internal/shared/auth"
)

const secretByteLength = 32 // 256 bits

// Service is the session-store facade: it issues identity records and opaque
// sessions, and validates session secrets presented by clients.
type Service struct {
	identities Repository
	sessions   SessionRepository
	maxAge     time.Duration
}

// NewService creates an identity service. maxAge bounds session lifetime.
func NewService(identities Repository, sessions SessionRepository, maxAge time.Duration) *Service {
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}
	return &Service{
		identities: identities,
		sessions:   sessions,
		maxAge:     maxAge,
	}
}

// CreateIdentity registers a new credential record with a freshly generated
// opaque id. Returns ErrEmailTaken if the email is already registered.
func (s *Service) CreateIdentity(ctx context.Context, email, password, name string) (*Identity, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	ident, err := s.identities.Create(ctx, CreateIdentityParams{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return ident, nil
}

// CreateSession verifies the email/password pair and issues a new session.
// The returned secret is the only copy; storage keeps its hash.
func (s *Service) CreateSession(ctx context.Context, email, password string) (*Session, string, error) {
	ident, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up identity: %w", err)
	}

	if err := auth.VerifyPassword(ident.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session secret: %w", err)
	}

	now := time.Now()
	session := &Session{
		ID:         uuid.NewString(),
		IdentityID: ident.ID,
		TokenHash:  HashSecret(secret),
		ExpiresAt:  now.Add(s.maxAge),
		CreatedAt:  now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to store session: %w", err)
	}

	return session, secret, nil
}

// Verify resolves a session secret to its session. Expired sessions are
// deleted on sight.
func (s *Service) Verify(ctx context.Context, secret string) (*Session, error) {
	if secret == "" {
		return nil, ErrSessionInvalid
	}

	session, err := s.sessions.GetByTokenHash(ctx, HashSecret(secret))
	if err != nil {
		return nil, ErrSessionInvalid
	}

	if time.Now().After(session.ExpiresAt) {
		if delErr := s.sessions.DeleteByID(ctx, session.ID); delErr != nil {
			return nil, fmt.Errorf("failed to delete expired session: %w", delErr)
		}
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Destroy invalidates the session for the given secret.
func (s *Service) Destroy(ctx context.Context, secret string) error {
	if secret == "" {
		return ErrSessionInvalid
	}
	return s.sessions.DeleteByTokenHash(ctx, HashSecret(secret))
}

// GetIdentity returns the identity record for id.
func (s *Service) GetIdentity(ctx context.Context, id string) (*Identity, error) {
	return s.identities.GetByID(ctx, id)
}

// DeleteIdentity removes an identity record. Used by the orphan sweep.
func (s *Service) DeleteIdentity(ctx context.Context, id string) error {
	return s.identities.Delete(ctx, id)
}

// ListOrphanedBefore exposes the orphan query for the reconciliation job.
func (s *Service) ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*Identity, error) {
	return s.identities.ListOrphanedBefore(ctx, cutoff)
}

// HashSecret returns the hex SHA-256 digest stored in place of the secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func generateSecret() (string, error) {
	b := make([]byte, secretByteLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
