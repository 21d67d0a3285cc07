package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/user"
	"horizon/internal/shared/middleware"
)

type mockLinkingService struct {
	CreateLinkTokenFunc     func(ctx context.Context, u *user.User) (string, error)
	ExchangePublicTokenFunc func(ctx context.Context, u *user.User, publicToken string) (*linking.LinkResult, error)
}

func (m *mockLinkingService) CreateLinkToken(ctx context.Context, u *user.User) (string, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, u)
	}
	return "link-token-1", nil
}

func (m *mockLinkingService) ExchangePublicToken(ctx context.Context, u *user.User, publicToken string) (*linking.LinkResult, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, u, publicToken)
	}
	return &linking.LinkResult{Status: "complete"}, nil
}

func withUser(req *http.Request, u *user.User) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserKey, u)
	return req.WithContext(ctx)
}

func TestHandleCreateLinkToken(t *testing.T) {
	handler := NewLinkingHandler(&mockLinkingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/linking/link-token", nil)
	req = withUser(req, &user.User{ID: "user-1"})
	rr := httptest.NewRecorder()

	handler.HandleCreateLinkToken(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp LinkTokenResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.LinkToken != "link-token-1" {
		t.Errorf("linkToken = %q, want %q", resp.LinkToken, "link-token-1")
	}
}

func TestHandleExchange_Success(t *testing.T) {
	handler := NewLinkingHandler(&mockLinkingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/linking/exchange", strings.NewReader(`{"publicToken":"public-1"}`))
	req = withUser(req, &user.User{ID: "user-1"})
	rr := httptest.NewRecorder()

	handler.HandleExchange(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp linking.LinkResult
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "complete" {
		t.Errorf(`publicTokenExchange = %q, want "complete"`, resp.Status)
	}
}

func TestHandleExchange_MissingToken(t *testing.T) {
	handler := NewLinkingHandler(&mockLinkingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/linking/exchange", strings.NewReader(`{}`))
	req = withUser(req, &user.User{ID: "user-1"})
	rr := httptest.NewRecorder()

	handler.HandleExchange(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHandleExchange_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"exchange failed", linking.ErrExchangeFailed, http.StatusBadGateway},
		{"no accounts", linking.ErrNoLinkableAccounts, http.StatusUnprocessableEntity},
		{"duplicate", bank.ErrDuplicateLink, http.StatusConflict},
		{"funding source", linking.ErrFundingSource, http.StatusBadGateway},
		{"processor token", linking.ErrProcessorToken, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockLinkingService{
				ExchangePublicTokenFunc: func(ctx context.Context, u *user.User, publicToken string) (*linking.LinkResult, error) {
					return nil, tt.err
				},
			}
			handler := NewLinkingHandler(service)

			req := httptest.NewRequest(http.MethodPost, "/api/linking/exchange", strings.NewReader(`{"publicToken":"public-1"}`))
			req = withUser(req, &user.User{ID: "user-1"})
			rr := httptest.NewRecorder()

			handler.HandleExchange(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
