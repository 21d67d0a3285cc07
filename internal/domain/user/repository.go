package user

import "context"

// Repository defines the interface for user directory access
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIdentityID(ctx context.Context, identityID string) (*User, error)
}
