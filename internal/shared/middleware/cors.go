package middleware

import "net/http"

// CORS wraps an http.Handler to apply Cross-Origin Resource Sharing headers
// and preflight handling.
//
// For HTTP OPTIONS (preflight) requests it responds with 204 No Content and
// does not call the next handler. Credentials are allowed because the session
// cookie must travel with cross-origin dashboard requests, so the origin is
// echoed back instead of using a wildcard.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "3600")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
