package notification

import "time"

// DeviceToken is a push target registered by a client application.
type DeviceToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterDeviceParams contains parameters for registering a device token.
type RegisterDeviceParams struct {
	ID       string
	UserID   string
	Token    string
	Platform string
}
