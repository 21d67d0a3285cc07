package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"horizon/internal/domain/identity"
)

// uniqueViolation is the postgres error code for unique constraint breaks.
const uniqueViolation = "23505"

type IdentityRepository struct {
	db *DB
}

var _ identity.Repository = (*IdentityRepository)(nil)

func NewIdentityRepository(db *DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Create inserts an identity record. A duplicate email maps to
// identity.ErrEmailTaken.
func (r *IdentityRepository) Create(ctx context.Context, params identity.CreateIdentityParams) (*identity.Identity, error) {
	query := `
		INSERT INTO identities (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, name, created_at
	`

	var ident identity.Identity
	err := r.db.QueryRowContext(ctx, query, params.ID, params.Email, params.PasswordHash, params.Name).Scan(
		&ident.ID, &ident.Email, &ident.PasswordHash, &ident.Name, &ident.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return nil, identity.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return &ident, nil
}

// GetByID retrieves an identity by its ID.
func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*identity.Identity, error) {
	query := `
		SELECT id, email, password_hash, name, created_at
		FROM identities
		WHERE id = $1
	`

	var ident identity.Identity
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ident.ID, &ident.Email, &ident.PasswordHash, &ident.Name, &ident.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, identity.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return &ident, nil
}

// GetByEmail retrieves an identity by email.
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	query := `
		SELECT id, email, password_hash, name, created_at
		FROM identities
		WHERE email = $1
	`

	var ident identity.Identity
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&ident.ID, &ident.Email, &ident.PasswordHash, &ident.Name, &ident.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, identity.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity by email: %w", err)
	}

	return &ident, nil
}

// Delete removes an identity and, via cascade, its sessions.
func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return identity.ErrIdentityNotFound
	}

	return nil
}

// ListOrphanedBefore returns identities older than cutoff with no matching
// user document. These are the leftovers of sign-ups that failed after the
// identity step.
func (r *IdentityRepository) ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*identity.Identity, error) {
	query := `
		SELECT i.id, i.email, i.password_hash, i.name, i.created_at
		FROM identities i
		WHERE i.created_at < $1
		  AND NOT EXISTS (
			SELECT 1 FROM users u WHERE u.identity_id = i.id
		  )
		ORDER BY i.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphaned identities: %w", err)
	}
	defer rows.Close()

	var identities []*identity.Identity
	for rows.Next() {
		var ident identity.Identity
		if err := rows.Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.Name, &ident.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		identities = append(identities, &ident)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating identities: %w", err)
	}

	return identities, nil
}
