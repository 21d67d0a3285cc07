package http

import (
	"encoding/json"
	"log"
	"net/http"

	"horizon/internal/domain/notification"
	"horizon/internal/shared/middleware"
)

type DeviceHandler struct {
	notifications *notification.Service
}

func NewDeviceHandler(notifications *notification.Service) *DeviceHandler {
	return &DeviceHandler{notifications: notifications}
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// HandleRegister stores a push token for the logged-in user.
func (h *DeviceHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())

	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "Device token is required", http.StatusBadRequest)
		return
	}

	device, err := h.notifications.RegisterDevice(r.Context(), u.ID, req.Token, req.Platform)
	if err != nil {
		log.Printf("User %s: failed to register device: %v", u.ID, err)
		http.Error(w, "Failed to register device", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(device)
}
