package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"horizon/internal/domain/user"
)

type mockResolver struct {
	users map[string]*user.User
	err   error
}

func (m *mockResolver) CurrentUser(ctx context.Context, secret string) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[secret], nil
}

func TestSession_ValidCookie(t *testing.T) {
	resolver := &mockResolver{users: map[string]*user.User{
		"secret-1": {ID: "user-1", Email: "a@x.com"},
	}}

	var gotUser *user.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Session(resolver, "horizon-session")(next)

	req := httptest.NewRequest(http.MethodGet, "/api/banks/", nil)
	req.AddCookie(&http.Cookie{Name: "horizon-session", Value: "secret-1"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if gotUser == nil || gotUser.ID != "user-1" {
		t.Errorf("user in context = %+v, want user-1", gotUser)
	}
}

func TestSession_MissingCookie(t *testing.T) {
	resolver := &mockResolver{users: map[string]*user.User{}}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler called without a session")
	})

	handler := Session(resolver, "horizon-session")(next)

	req := httptest.NewRequest(http.MethodGet, "/api/banks/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestSession_UnknownSecret(t *testing.T) {
	resolver := &mockResolver{users: map[string]*user.User{}}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler called with an unknown secret")
	})

	handler := Session(resolver, "horizon-session")(next)

	req := httptest.NewRequest(http.MethodGet, "/api/banks/", nil)
	req.AddCookie(&http.Cookie{Name: "horizon-session", Value: "stale"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestSession_ResolverError(t *testing.T) {
	resolver := &mockResolver{err: errors.New("store down")}
	handler := Session(resolver, "horizon-session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/banks/", nil)
	req.AddCookie(&http.Cookie{Name: "horizon-session", Value: "secret-1"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if u := UserFromContext(context.Background()); u != nil {
		t.Errorf("UserFromContext() = %+v, want nil", u)
	}
}
