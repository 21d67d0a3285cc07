package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"horizon/internal/domain/identity"
)

type SessionRepository struct {
	db *DB
}

var _ identity.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a session. Only the hash of the secret is ever persisted.
func (r *SessionRepository) Create(ctx context.Context, session *identity.Session) error {
	query := `
		INSERT INTO sessions (id, identity_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, session.ID, session.IdentityID, session.TokenHash, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByTokenHash retrieves a session by the hash of its secret.
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*identity.Session, error) {
	query := `
		SELECT id, identity_id, token_hash, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1
	`

	var session identity.Session
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&session.ID, &session.IdentityID, &session.TokenHash, &session.ExpiresAt, &session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, identity.ErrSessionInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// DeleteByTokenHash removes the session for a secret hash. Deleting a session
// that is already gone is not an error.
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByID removes a session by its ID.
func (r *SessionRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
