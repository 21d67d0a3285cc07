package aggregator

import (
	"context"
)

// ClientInterface defines the methods required from the aggregator API client
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, params LinkTokenParams) (*LinkTokenResponse, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error)
	GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (*ProcessorTokenResponse, error)
}
