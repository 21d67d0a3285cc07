// Package linking orchestrates the bank-account link flow: link token
// issuance, public-token exchange, funding-source provisioning and the
// persisted account link record.
package linking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/payments"
)

// The processor tag sent on processor-token requests.
const processorName = "dwolla"

// Domain errors for the link flow. Each one names the step that failed so
// handlers can map them to distinct responses.
var (
	ErrExchangeFailed     = errors.New("public token exchange failed")
	ErrNoLinkableAccounts = errors.New("no linkable accounts for item")
	ErrProcessorToken     = errors.New("processor token creation failed")
	ErrFundingSource      = errors.New("funding source creation failed")
)

// Notifier is the post-link notification hook. May be a no-op.
type Notifier interface {
	SendBankLinked(ctx context.Context, userID, accountName string)
}

// Revalidator invalidates cached rendered views after a state change.
// Implemented by the shared memory cache.
type Revalidator interface {
	Invalidate(key string)
}

// Service runs the linking flow end to end.
type Service struct {
	aggregator  aggregator.ClientInterface
	payments    payments.ClientInterface
	banks       bank.Repository
	encryptor   *crypto.Encryptor
	selector    AccountSelector
	notifier    Notifier
	revalidator Revalidator
}

// NewService creates a linking service. notifier and revalidator may be nil.
func NewService(
	agg aggregator.ClientInterface,
	pay payments.ClientInterface,
	banks bank.Repository,
	encryptor *crypto.Encryptor,
	notifier Notifier,
	revalidator Revalidator,
) *Service {
	return &Service{
		aggregator:  agg,
		payments:    pay,
		banks:       banks,
		encryptor:   encryptor,
		selector:    SelectFirstAccount,
		notifier:    notifier,
		revalidator: revalidator,
	}
}

// LinkResult signals a completed exchange to the client.
type LinkResult struct {
	Status string `json:"publicTokenExchange"`
}

// CreateLinkToken issues a short-lived token for the client-side link UI,
// scoped to the given user.
func (s *Service) CreateLinkToken(ctx context.Context, u *user.User) (string, error) {
	resp, err := s.aggregator.CreateLinkToken(ctx, aggregator.LinkTokenParams{
		ClientUserID: u.ID,
		ClientName:   u.FullName(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create link token: %w", err)
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken completes a link: exchanges the public token for a
// durable access token, selects the account, provisions a funding source at
// the payments processor and persists the link record. Nothing is persisted
// unless every step succeeds.
func (s *Service) ExchangePublicToken(ctx context.Context, u *user.User, publicToken string) (*LinkResult, error) {
	exchange, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	accountsResp, err := s.aggregator.GetAccounts(ctx, exchange.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for item %s: %w", exchange.ItemID, err)
	}

	account, err := s.selector(accountsResp.Accounts)
	if err != nil {
		return nil, err
	}

	exists, err := s.banks.Exists(ctx, u.ID, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing link: %w", err)
	}
	if exists {
		return nil, bank.ErrDuplicateLink
	}

	processorResp, err := s.aggregator.CreateProcessorToken(ctx, exchange.AccessToken, account.AccountID, processorName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessorToken, err)
	}

	fundingSourceURL, err := s.payments.CreateFundingSource(ctx, u.PaymentsCustomerID, processorResp.ProcessorToken, account.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFundingSource, err)
	}
	if fundingSourceURL == "" {
		return nil, fmt.Errorf("%w: empty funding source URL", ErrFundingSource)
	}

	shareableID, err := s.encryptor.Encrypt(account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive shareable id: %w", err)
	}

	if _, err := s.banks.Create(ctx, bank.CreateParams{
		ID:               uuid.NewString(),
		UserID:           u.ID,
		BankID:           exchange.ItemID,
		AccountID:        account.AccountID,
		AccessToken:      exchange.AccessToken,
		FundingSourceURL: fundingSourceURL,
		ShareableID:      shareableID,
	}); err != nil {
		if errors.Is(err, bank.ErrDuplicateLink) {
			return nil, bank.ErrDuplicateLink
		}
		return nil, fmt.Errorf("failed to persist account link: %w", err)
	}

	if s.revalidator != nil {
		s.revalidator.Invalidate("/")
	}
	if s.notifier != nil {
		s.notifier.SendBankLinked(ctx, u.ID, account.Name)
	}

	log.Printf("User %s: linked account %s on item %s", u.ID, account.AccountID, exchange.ItemID)
	return &LinkResult{Status: "complete"}, nil
}

// DecodeShareableID recovers the aggregator account id from a shareable id.
func (s *Service) DecodeShareableID(shareableID string) (string, error) {
	return s.encryptor.Decrypt(shareableID)
}
