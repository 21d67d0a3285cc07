package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"horizon/internal/domain/bank"
	"horizon/internal/infrastructure/crypto"
)

// BankRepository stores account links. Aggregator access tokens are
// encrypted before they touch the database and decrypted on the way out.
type BankRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

var _ bank.Repository = (*BankRepository)(nil)

func NewBankRepository(db *DB, encryptor *crypto.Encryptor) *BankRepository {
	return &BankRepository{db: db, encryptor: encryptor}
}

const bankColumns = `id, user_id, bank_id, account_id, access_token, funding_source_url, shareable_id, created_at`

// Create persists an account link. The unique (user_id, account_id)
// constraint maps to bank.ErrDuplicateLink.
func (r *BankRepository) Create(ctx context.Context, params bank.CreateParams) (*bank.AccountLink, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	encToken, err := r.encryptor.Encrypt(params.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	query := `
		INSERT INTO bank_links (id, user_id, bank_id, account_id, access_token, funding_source_url, shareable_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bankColumns

	link, err := r.scanLink(r.db.QueryRowContext(ctx, query,
		params.ID, params.UserID, params.BankID, params.AccountID,
		encToken, params.FundingSourceURL, params.ShareableID,
	))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return nil, bank.ErrDuplicateLink
		}
		return nil, fmt.Errorf("failed to create account link: %w", err)
	}

	return link, nil
}

// GetByID retrieves an account link by its ID.
func (r *BankRepository) GetByID(ctx context.Context, id string) (*bank.AccountLink, error) {
	query := `SELECT ` + bankColumns + ` FROM bank_links WHERE id = $1`

	link, err := r.scanLink(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, bank.ErrBankNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account link: %w", err)
	}
	return link, nil
}

// ListByUserID retrieves all account links for a user, oldest first.
func (r *BankRepository) ListByUserID(ctx context.Context, userID string) ([]*bank.AccountLink, error) {
	query := `SELECT ` + bankColumns + ` FROM bank_links WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account links: %w", err)
	}
	defer rows.Close()

	var links []*bank.AccountLink
	for rows.Next() {
		link, err := r.scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account link: %w", err)
		}
		links = append(links, link)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account links: %w", err)
	}

	return links, nil
}

// GetByAccountID retrieves the link for an aggregator account id. More than
// one match is treated as not found, same as zero.
func (r *BankRepository) GetByAccountID(ctx context.Context, accountID string) (*bank.AccountLink, error) {
	query := `SELECT ` + bankColumns + ` FROM bank_links WHERE account_id = $1`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account link: %w", err)
	}
	defer rows.Close()

	var links []*bank.AccountLink
	for rows.Next() {
		link, err := r.scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account link: %w", err)
		}
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account links: %w", err)
	}

	if len(links) != 1 {
		return nil, bank.ErrBankNotFound
	}
	return links[0], nil
}

// Exists reports whether the user already linked this account.
func (r *BankRepository) Exists(ctx context.Context, userID, accountID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bank_links WHERE user_id = $1 AND account_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for existing link: %w", err)
	}
	return exists, nil
}

func (r *BankRepository) scanLink(row rowScanner) (*bank.AccountLink, error) {
	var link bank.AccountLink
	err := row.Scan(
		&link.ID, &link.UserID, &link.BankID, &link.AccountID,
		&link.AccessToken, &link.FundingSourceURL, &link.ShareableID, &link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	token, err := r.encryptor.Decrypt(link.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	link.AccessToken = token

	return &link, nil
}
