package notification

import "context"

// Repository defines the interface for device token storage
type Repository interface {
	Register(ctx context.Context, params RegisterDeviceParams) (*DeviceToken, error)
	ListActiveByUserID(ctx context.Context, userID string) ([]*DeviceToken, error)
	Deactivate(ctx context.Context, token string) error
}
