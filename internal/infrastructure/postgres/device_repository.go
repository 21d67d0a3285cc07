package postgres

import (
	"context"
	"fmt"

	"horizon/internal/domain/notification"
)

type DeviceRepository struct {
	db *DB
}

var _ notification.Repository = (*DeviceRepository)(nil)

func NewDeviceRepository(db *DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Register stores a device token, reactivating it if it was registered
// before.
func (r *DeviceRepository) Register(ctx context.Context, params notification.RegisterDeviceParams) (*notification.DeviceToken, error) {
	query := `
		INSERT INTO device_tokens (id, user_id, token, platform, active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (token) DO UPDATE SET user_id = $2, platform = $4, active = TRUE
		RETURNING id, user_id, token, platform, active, created_at
	`

	var device notification.DeviceToken
	err := r.db.QueryRowContext(ctx, query, params.ID, params.UserID, params.Token, params.Platform).Scan(
		&device.ID, &device.UserID, &device.Token, &device.Platform, &device.Active, &device.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register device token: %w", err)
	}

	return &device, nil
}

// ListActiveByUserID returns the user's active push targets.
func (r *DeviceRepository) ListActiveByUserID(ctx context.Context, userID string) ([]*notification.DeviceToken, error) {
	query := `
		SELECT id, user_id, token, platform, active, created_at
		FROM device_tokens
		WHERE user_id = $1 AND active
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var devices []*notification.DeviceToken
	for rows.Next() {
		var device notification.DeviceToken
		if err := rows.Scan(&device.ID, &device.UserID, &device.Token, &device.Platform, &device.Active, &device.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		devices = append(devices, &device)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device tokens: %w", err)
	}

	return devices, nil
}

// Deactivate marks a token inactive. Called when FCM reports the token
// unregistered.
func (r *DeviceRepository) Deactivate(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE device_tokens SET active = FALSE WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to deactivate device token: %w", err)
	}
	return nil
}
