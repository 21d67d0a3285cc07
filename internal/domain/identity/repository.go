package identity

import (
	"context"
	"time"
)

// Repository defines the interface for identity data access
type Repository interface {
	Create(ctx context.Context, params CreateIdentityParams) (*Identity, error)
	GetByID(ctx context.Context, id string) (*Identity, error)
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	Delete(ctx context.Context, id string) error

	// ListOrphanedBefore returns identities created before cutoff that have
	// no matching user document. Used by the reconciliation sweep.
	ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*Identity, error)
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByID(ctx context.Context, id string) error
}
