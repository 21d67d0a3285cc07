package main

import (
	"log"
	"net/http"

	"horizon/internal/shared/config"
	"horizon/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", deps.HealthHandler.HandleHealth)

	// Public auth routes
	mux.HandleFunc("POST /api/auth/sign-up", deps.AuthHandler.HandleSignUp)
	mux.HandleFunc("POST /api/auth/sign-in", deps.AuthHandler.HandleSignIn)
	mux.HandleFunc("POST /api/auth/logout", deps.AuthHandler.HandleLogout)

	// Anonymous-friendly: returns null without a session
	mux.HandleFunc("GET /api/users/me", deps.AuthHandler.HandleMe)

	// Protected routes
	sessionMiddleware := middleware.Session(deps.AuthService, cfg.Session.CookieName)

	mux.Handle("GET /api/banks/", sessionMiddleware(http.HandlerFunc(deps.BankHandler.HandleList)))
	mux.Handle("GET /api/banks/{id}", sessionMiddleware(http.HandlerFunc(deps.BankHandler.HandleGet)))
	mux.Handle("GET /api/banks/by-account/{accountId}", sessionMiddleware(http.HandlerFunc(deps.BankHandler.HandleGetByAccountID)))
	mux.Handle("POST /api/linking/link-token", sessionMiddleware(http.HandlerFunc(deps.LinkingHandler.HandleCreateLinkToken)))
	mux.Handle("POST /api/linking/exchange", sessionMiddleware(http.HandlerFunc(deps.LinkingHandler.HandleExchange)))
	mux.Handle("POST /api/devices", sessionMiddleware(http.HandlerFunc(deps.DeviceHandler.HandleRegister)))

	// Apply global middleware
	handler := middleware.Logging(middleware.Tracing(middleware.CORS(cfg.Server.CORSOrigin)(mux)))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
