package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/user"
	"horizon/internal/shared/cache"
)

type mockBankRepo struct {
	CreateFunc         func(ctx context.Context, params bank.CreateParams) (*bank.AccountLink, error)
	GetByIDFunc        func(ctx context.Context, id string) (*bank.AccountLink, error)
	ListByUserIDFunc   func(ctx context.Context, userID string) ([]*bank.AccountLink, error)
	GetByAccountIDFunc func(ctx context.Context, accountID string) (*bank.AccountLink, error)
	ExistsFunc         func(ctx context.Context, userID, accountID string) (bool, error)
}

func (m *mockBankRepo) Create(ctx context.Context, params bank.CreateParams) (*bank.AccountLink, error) {
	return m.CreateFunc(ctx, params)
}

func (m *mockBankRepo) GetByID(ctx context.Context, id string) (*bank.AccountLink, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, bank.ErrBankNotFound
}

func (m *mockBankRepo) ListByUserID(ctx context.Context, userID string) ([]*bank.AccountLink, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockBankRepo) GetByAccountID(ctx context.Context, accountID string) (*bank.AccountLink, error) {
	if m.GetByAccountIDFunc != nil {
		return m.GetByAccountIDFunc(ctx, accountID)
	}
	return nil, bank.ErrBankNotFound
}

func (m *mockBankRepo) Exists(ctx context.Context, userID, accountID string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, userID, accountID)
	}
	return false, nil
}

func TestHandleList_Empty(t *testing.T) {
	handler := NewBankHandler(&mockBankRepo{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/banks/", nil)
	req = withUser(req, &user.User{ID: "user-1"})
	rr := httptest.NewRecorder()

	handler.HandleList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var links []*bank.AccountLink
	if err := json.NewDecoder(rr.Body).Decode(&links); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if links == nil {
		t.Error("expected empty array, got null")
	}
}

func TestHandleList_ReturnsUserLinks(t *testing.T) {
	repo := &mockBankRepo{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*bank.AccountLink, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want %q", userID, "user-1")
			}
			return []*bank.AccountLink{{ID: "link-1", UserID: userID}}, nil
		},
	}
	handler := NewBankHandler(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/banks/", nil)
	req = withUser(req, &user.User{ID: "user-1"})
	rr := httptest.NewRecorder()

	handler.HandleList(rr, req)

	var links []*bank.AccountLink
	if err := json.NewDecoder(rr.Body).Decode(&links); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(links) != 1 || links[0].ID != "link-1" {
		t.Errorf("links = %+v, want one link-1", links)
	}
}

func TestHandleList_CachesRenderedPayload(t *testing.T) {
	calls := 0
	repo := &mockBankRepo{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*bank.AccountLink, error) {
			calls++
			return []*bank.AccountLink{{ID: "link-1", UserID: userID}}, nil
		},
	}
	handler := NewBankHandler(repo, cache.NewMemory(time.Minute, 0))

	first := listBanks(handler, "user-1")
	second := listBanks(handler, "user-1")

	if calls != 1 {
		t.Errorf("repository queried %d times, want 1", calls)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("cached body = %q, want %q", second.Body.String(), first.Body.String())
	}
}

func TestHandleList_InvalidateRefreshesList(t *testing.T) {
	links := []*bank.AccountLink{{ID: "link-1", UserID: "user-1"}}
	repo := &mockBankRepo{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*bank.AccountLink, error) {
			return links, nil
		},
	}
	c := cache.NewMemory(time.Minute, 0)
	handler := NewBankHandler(repo, c)

	listBanks(handler, "user-1")
	links = append(links, &bank.AccountLink{ID: "link-2", UserID: "user-1"})
	c.Invalidate("/")
	rr := listBanks(handler, "user-1")

	var got []*bank.AccountLink
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(links) = %d after invalidation, want 2", len(got))
	}
}

func TestHandleList_CacheIsPerUser(t *testing.T) {
	repo := &mockBankRepo{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*bank.AccountLink, error) {
			return []*bank.AccountLink{{ID: "link-" + userID, UserID: userID}}, nil
		},
	}
	handler := NewBankHandler(repo, cache.NewMemory(time.Minute, 0))

	listBanks(handler, "user-1")
	rr := listBanks(handler, "user-2")

	var got []*bank.AccountLink
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "user-2" {
		t.Errorf("links = %+v, want user-2's own list", got)
	}
}

func listBanks(handler *BankHandler, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/banks/", nil)
	req = withUser(req, &user.User{ID: userID})
	rr := httptest.NewRecorder()
	handler.HandleList(rr, req)
	return rr
}

func TestHandleGet_NotFound(t *testing.T) {
	handler := NewBankHandler(&mockBankRepo{}, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/banks/{id}", handler.HandleGet)

	req := httptest.NewRequest(http.MethodGet, "/api/banks/missing", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHandleGetByAccountID(t *testing.T) {
	repo := &mockBankRepo{
		GetByAccountIDFunc: func(ctx context.Context, accountID string) (*bank.AccountLink, error) {
			if accountID == "acct-1" {
				return &bank.AccountLink{ID: "link-1", AccountID: accountID}, nil
			}
			return nil, bank.ErrBankNotFound
		},
	}
	handler := NewBankHandler(repo, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/banks/by-account/{accountId}", handler.HandleGetByAccountID)

	req := httptest.NewRequest(http.MethodGet, "/api/banks/by-account/acct-1", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var link bank.AccountLink
	if err := json.NewDecoder(rr.Body).Decode(&link); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if link.ID != "link-1" {
		t.Errorf("link.ID = %q, want %q", link.ID, "link-1")
	}
}

func TestAccountLinkJSON_HidesAccessToken(t *testing.T) {
	raw, err := json.Marshal(&bank.AccountLink{ID: "link-1", AccessToken: "access-secret"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "access-secret") {
		t.Errorf("serialized link leaks the access token: %s", raw)
	}
}
