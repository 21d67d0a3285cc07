package bank

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrBankNotFound  = errors.New("bank account link not found")
	ErrDuplicateLink = errors.New("bank account already linked")
)

// AccountLink is one linked external bank account. It is only ever
// constructed after both the aggregator exchange and the funding-source
// creation have succeeded; partial records are never persisted.
type AccountLink struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	BankID           string    `json:"bankId"`    // aggregator item id
	AccountID        string    `json:"accountId"` // aggregator account id
	AccessToken      string    `json:"-"`         // aggregator secret, encrypted at rest
	FundingSourceURL string    `json:"fundingSourceUrl"`
	ShareableID      string    `json:"shareableId"` // reversibly encrypted AccountID
	CreatedAt        time.Time `json:"createdAt"`
}

// CreateParams contains parameters for persisting an account link.
type CreateParams struct {
	ID               string
	UserID           string
	BankID           string
	AccountID        string
	AccessToken      string
	FundingSourceURL string
	ShareableID      string
}

// Validate checks that every field required for a complete link is present.
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.BankID == "" {
		return errors.New("bank ID is required")
	}
	if p.AccountID == "" {
		return errors.New("account ID is required")
	}
	if p.AccessToken == "" {
		return errors.New("access token is required")
	}
	if p.FundingSourceURL == "" {
		return errors.New("funding source URL is required")
	}
	if p.ShareableID == "" {
		return errors.New("shareable ID is required")
	}
	return nil
}
