package bank

import "context"

// Repository defines the interface for bank account link storage
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*AccountLink, error)
	GetByID(ctx context.Context, id string) (*AccountLink, error)
	ListByUserID(ctx context.Context, userID string) ([]*AccountLink, error)

	// GetByAccountID returns the link for an aggregator account id; it is a
	// not-found error unless exactly one record matches.
	GetByAccountID(ctx context.Context, accountID string) (*AccountLink, error)

	// Exists reports whether a (userID, accountID) pair is already linked.
	Exists(ctx context.Context, userID, accountID string) (bool, error)
}
