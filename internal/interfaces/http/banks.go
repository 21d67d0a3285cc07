package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/bank"
	"horizon/internal/shared/middleware"
)

// ResponseCache memoizes rendered list payloads between link events.
// Implemented by the shared memory cache; a bank link invalidates it.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, payload []byte)
}

type BankHandler struct {
	banks bank.Repository
	cache ResponseCache
}

// NewBankHandler creates a bank handler. cache may be nil to disable
// response memoization.
func NewBankHandler(banks bank.Repository, cache ResponseCache) *BankHandler {
	return &BankHandler{banks: banks, cache: cache}
}

// HandleList returns all account links for the logged-in user. The rendered
// payload is cached per user until the TTL elapses or a link invalidates it.
func (h *BankHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	key := r.URL.Path + "?user=" + u.ID

	if h.cache != nil {
		if payload, ok := h.cache.Get(key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	links, err := h.banks.ListByUserID(r.Context(), u.ID)
	if err != nil {
		log.Printf("User %s: failed to list account links: %v", u.ID, err)
		http.Error(w, "Failed to list bank accounts", http.StatusInternalServerError)
		return
	}

	if links == nil {
		links = []*bank.AccountLink{}
	}

	payload, err := json.Marshal(links)
	if err != nil {
		log.Printf("User %s: failed to encode account links: %v", u.ID, err)
		http.Error(w, "Failed to list bank accounts", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		h.cache.Set(key, payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// HandleGet returns one account link by its record id.
func (h *BankHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Bank ID is required", http.StatusBadRequest)
		return
	}

	link, err := h.banks.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, bank.ErrBankNotFound) {
			http.Error(w, "Bank account not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to get account link %s: %v", id, err)
		http.Error(w, "Failed to get bank account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(link)
}

// HandleGetByAccountID returns the link for an aggregator account id. Zero or
// multiple matches are both a 404.
func (h *BankHandler) HandleGetByAccountID(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountId")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	link, err := h.banks.GetByAccountID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, bank.ErrBankNotFound) {
			http.Error(w, "Bank account not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to get account link for account %s: %v", accountID, err)
		http.Error(w, "Failed to get bank account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(link)
}
