// Package aggregator is the HTTP client for the financial data aggregator:
// link tokens, public-token exchange, account metadata and processor tokens.
package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTimeout     = 30 * time.Second
	linkTokenPath      = "/link/token/create"
	exchangePath       = "/item/public_token/exchange"
	accountsPath       = "/accounts/get"
	processorTokenPath = "/processor/token/create"
)

// Client handles communication with the aggregator API
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new aggregator API client
func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
	}
}

// LinkTokenParams identifies the end user starting a client-side link flow.
type LinkTokenParams struct {
	ClientUserID string
	ClientName   string
}

type linkTokenRequest struct {
	ClientID     string   `json:"client_id"`
	Secret       string   `json:"secret"`
	User         linkUser `json:"user"`
	ClientName   string   `json:"client_name"`
	Products     []string `json:"products"`
	Language     string   `json:"language"`
	CountryCodes []string `json:"country_codes"`
}

type linkUser struct {
	ClientUserID string `json:"client_user_id"`
}

// LinkTokenResponse carries the short-lived token handed to the client UI.
type LinkTokenResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
	RequestID  string `json:"request_id"`
}

// ExchangeResponse is the durable result of a public-token exchange.
type ExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

// AccountsResponse lists the accounts reachable through an access token.
type AccountsResponse struct {
	Accounts  []Account `json:"accounts"`
	RequestID string    `json:"request_id"`
}

// Account is one account as reported by the aggregator
type Account struct {
	AccountID    string   `json:"account_id"`
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	Mask         string   `json:"mask"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
	Balances     Balances `json:"balances"`
}

// Balances carries the account's money amounts. The API reports them as JSON
// numbers; decimal avoids float drift on the payments boundary.
type Balances struct {
	Available       *decimal.Decimal `json:"available"`
	Current         *decimal.Decimal `json:"current"`
	IsoCurrencyCode string           `json:"iso_currency_code"`
}

// ProcessorTokenResponse carries the token handed to the payments processor.
type ProcessorTokenResponse struct {
	ProcessorToken string `json:"processor_token"`
	RequestID      string `json:"request_id"`
}

type apiError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// CreateLinkToken creates a link token for the client-side link flow.
// Products, language and country codes are fixed: auth, en, US.
func (c *Client) CreateLinkToken(ctx context.Context, params LinkTokenParams) (*LinkTokenResponse, error) {
	req := linkTokenRequest{
		ClientID:     c.clientID,
		Secret:       c.secret,
		User:         linkUser{ClientUserID: params.ClientUserID},
		ClientName:   params.ClientName,
		Products:     []string{"auth"},
		Language:     "en",
		CountryCodes: []string{"US"},
	}

	var resp LinkTokenResponse
	if err := c.post(ctx, linkTokenPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExchangePublicToken swaps a public token for an access token and item id.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error) {
	req := map[string]string{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"public_token": publicToken,
	}

	var resp ExchangeResponse
	if err := c.post(ctx, exchangePath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccounts lists the accounts behind an access token.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error) {
	req := map[string]string{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
	}

	var resp AccountsResponse
	if err := c.post(ctx, accountsPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateProcessorToken creates a processor token scoped to one account and
// tagged for the named processor.
func (c *Client) CreateProcessorToken(ctx context.Context, accessToken, accountID, processor string) (*ProcessorTokenResponse, error) {
	req := map[string]string{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
		"account_id":   accountID,
		"processor":    processor,
	}

	var resp ProcessorTokenResponse
	if err := c.post(ctx, processorTokenPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.ErrorCode != "" {
			return fmt.Errorf("aggregator %s returned %d: %s (%s)", path, resp.StatusCode, apiErr.ErrorMessage, apiErr.ErrorCode)
		}
		return fmt.Errorf("aggregator %s returned status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", path, err)
	}
	return nil
}
