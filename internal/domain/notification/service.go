package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Service fans push notifications out to a user's active devices. Delivery
// is best-effort; callers never fail on a notification error.
type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates a notification service. messenger may be nil, in which
// case sends are skipped.
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// RegisterDevice stores a device token for the user.
func (s *Service) RegisterDevice(ctx context.Context, userID, token, platform string) (*DeviceToken, error) {
	if token == "" {
		return nil, fmt.Errorf("device token is required")
	}
	return s.repo.Register(ctx, RegisterDeviceParams{
		ID:       uuid.NewString(),
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
}

// DeactivateToken marks a token inactive. Wired into the FCM client's
// invalid-token callback.
func (s *Service) DeactivateToken(ctx context.Context, token string) error {
	return s.repo.Deactivate(ctx, token)
}

// SendBankLinked notifies the user's devices that a bank account was linked.
func (s *Service) SendBankLinked(ctx context.Context, userID, accountName string) {
	if s.messenger == nil {
		return
	}

	devices, err := s.repo.ListActiveByUserID(ctx, userID)
	if err != nil {
		log.Printf("User %s: failed to list devices for link notification: %v", userID, err)
		return
	}
	if len(devices) == 0 {
		return
	}

	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.Token)
	}

	title := "Bank account linked"
	body := fmt.Sprintf("%s is now connected to your dashboard", accountName)
	if err := s.messenger.Notify(ctx, tokens, title, body, map[string]string{"type": "bank_linked"}); err != nil {
		log.Printf("User %s: failed to send link notification: %v", userID, err)
	}
}
