package middleware

import (
	"context"
	"net/http"

	"horizon/internal/domain/user"
)

type ContextKey string

const UserKey ContextKey = "user"

// UserResolver resolves a session cookie secret to the logged-in user.
// A nil user with a nil error means not logged in. Implemented by the auth
// orchestrator.
type UserResolver interface {
	CurrentUser(ctx context.Context, secret string) (*user.User, error)
}

// Session guards routes that require a logged-in user. The session secret
// travels in an HttpOnly cookie; requests without a valid session get 401.
func Session(resolver UserResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var secret string
			if cookie, err := r.Cookie(cookieName); err == nil {
				secret = cookie.Value
			}

			u, err := resolver.CurrentUser(r.Context(), secret)
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if u == nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user attached by Session, or nil.
func UserFromContext(ctx context.Context) *user.User {
	u, _ := ctx.Value(UserKey).(*user.User)
	return u
}
