package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/user"
	"horizon/internal/shared/middleware"
)

// LinkingService is the orchestrator surface the linking handler needs.
type LinkingService interface {
	CreateLinkToken(ctx context.Context, u *user.User) (string, error)
	ExchangePublicToken(ctx context.Context, u *user.User, publicToken string) (*linking.LinkResult, error)
}

type LinkingHandler struct {
	service LinkingService
}

func NewLinkingHandler(service LinkingService) *LinkingHandler {
	return &LinkingHandler{service: service}
}

type LinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type ExchangeRequest struct {
	PublicToken string `json:"publicToken"`
}

// HandleCreateLinkToken issues a link token for the client-side link flow.
func (h *LinkingHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())

	token, err := h.service.CreateLinkToken(r.Context(), u)
	if err != nil {
		log.Printf("User %s: failed to create link token: %v", u.ID, err)
		http.Error(w, "Failed to create link token", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LinkTokenResponse{LinkToken: token})
}

// HandleExchange completes the link flow for a public token.
func (h *LinkingHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PublicToken == "" {
		http.Error(w, "Public token is required", http.StatusBadRequest)
		return
	}

	result, err := h.service.ExchangePublicToken(r.Context(), u, req.PublicToken)
	if err != nil {
		switch {
		case errors.Is(err, linking.ErrExchangeFailed):
			http.Error(w, "Public token exchange failed", http.StatusBadGateway)
		case errors.Is(err, linking.ErrNoLinkableAccounts):
			http.Error(w, "No linkable accounts found", http.StatusUnprocessableEntity)
		case errors.Is(err, bank.ErrDuplicateLink):
			http.Error(w, "This account is already linked", http.StatusConflict)
		case errors.Is(err, linking.ErrProcessorToken), errors.Is(err, linking.ErrFundingSource):
			log.Printf("User %s: link flow failed at processor step: %v", u.ID, err)
			http.Error(w, "Failed to provision funding source", http.StatusBadGateway)
		default:
			log.Printf("User %s: link flow failed: %v", u.ID, err)
			http.Error(w, "Failed to link bank account", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
