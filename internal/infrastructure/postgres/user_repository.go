package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/crypto"
)

// UserRepository stores user documents. SSNs are encrypted before they touch
// the database and decrypted on the way out, same as aggregator access
// tokens in BankRepository.
type UserRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *DB, encryptor *crypto.Encryptor) *UserRepository {
	return &UserRepository{db: db, encryptor: encryptor}
}

const userColumns = `id, identity_id, email, first_name, last_name, address, city, state,
	postal_code, date_of_birth, ssn, payments_customer_id, payments_customer_url, created_at`

// Create persists a user document.
func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	encSSN, err := r.encryptor.Encrypt(params.SSN)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt ssn: %w", err)
	}

	query := `
		INSERT INTO users (id, identity_id, email, first_name, last_name, address, city, state,
			postal_code, date_of_birth, ssn, payments_customer_id, payments_customer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		params.ID, params.IdentityID, params.Email, params.FirstName, params.LastName,
		params.Address, params.City, params.State, params.PostalCode, params.DateOfBirth,
		encSSN, params.PaymentsCustomerID, params.PaymentsCustomerURL,
	)

	u, err := r.scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByIdentityID retrieves the user document tied to an identity record.
func (r *UserRepository) GetByIdentityID(ctx context.Context, identityID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE identity_id = $1`

	u, err := r.scanUser(r.db.QueryRowContext(ctx, query, identityID))
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by identity: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.IdentityID, &u.Email, &u.FirstName, &u.LastName, &u.Address, &u.City,
		&u.State, &u.PostalCode, &u.DateOfBirth, &u.SSN, &u.PaymentsCustomerID,
		&u.PaymentsCustomerURL, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	ssn, err := r.encryptor.Decrypt(u.SSN)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt ssn: %w", err)
	}
	u.SSN = ssn

	return &u, nil
}
