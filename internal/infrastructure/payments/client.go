// Package payments is the HTTP client for the payments processor: personal
// customer records and funding sources created from processor tokens. Created
// resources are addressed by URL; the id is the trailing path segment.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	customersPath  = "/customers"
)

// Client handles communication with the payments processor API
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new payments processor client
func NewClient(baseURL, key, secret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
		key:     key,
		secret:  secret,
	}
}

// CustomerParams contains the profile fields for a personal customer record.
type CustomerParams struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

type fundingSourceRequest struct {
	ProcessorToken string `json:"plaidToken"`
	Name           string `json:"name"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateCustomer creates a personal customer record and returns its resource
// URL. The Type field is forced to "personal".
func (c *Client) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	params.Type = "personal"
	return c.postForLocation(ctx, customersPath, params)
}

// CreateFundingSource attaches a funding source to a customer from a
// processor token and returns the funding source resource URL.
func (c *Client) CreateFundingSource(ctx context.Context, customerID, processorToken, name string) (string, error) {
	path := fmt.Sprintf("%s/%s/funding-sources", customersPath, customerID)
	return c.postForLocation(ctx, path, fundingSourceRequest{
		ProcessorToken: processorToken,
		Name:           name,
	})
}

// IDFromResourceURL extracts the resource id: the path segment after the
// final slash.
func IDFromResourceURL(resourceURL string) string {
	if resourceURL == "" {
		return ""
	}
	parts := strings.Split(strings.TrimRight(resourceURL, "/"), "/")
	return parts[len(parts)-1]
}

// postForLocation issues a create request and returns the Location header of
// the created resource.
func (c *Client) postForLocation(ctx context.Context, path string, body any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/vnd.dwolla.v1.hal+json")
	req.Header.Set("Accept", "application/vnd.dwolla.v1.hal+json")
	req.SetBasicAuth(c.key, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Code != "" {
			return "", fmt.Errorf("payments %s returned %d: %s (%s)", path, resp.StatusCode, apiErr.Message, apiErr.Code)
		}
		return "", fmt.Errorf("payments %s returned status %d", path, resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("payments %s returned no resource location", path)
	}
	return location, nil
}
