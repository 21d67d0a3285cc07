package firebase

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

const fcmBatchLimit = 500

// TokenDeactivator marks an invalid device token as inactive. Provided by the
// notification service to avoid coupling this client to the repository.
type TokenDeactivator func(ctx context.Context, token string) error

// Client implements notification.Messenger using Firebase Cloud Messaging
type Client struct {
	msgClient   *messaging.Client
	deactivator TokenDeactivator
}

// NewClient initializes a Firebase app and returns an FCM client.
// deactivator may be nil.
func NewClient(ctx context.Context, credentialsFile string, deactivator TokenDeactivator) (*Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging client: %w", err)
	}

	return &Client{msgClient: msgClient, deactivator: deactivator}, nil
}

// Notify pushes a message to the given device tokens, batching to the FCM
// limit. Tokens FCM reports as unregistered are deactivated.
func (c *Client) Notify(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	var failures int
	for _, batch := range chunkTokens(tokens, fcmBatchLimit) {
		msg := &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}

		resp, err := c.msgClient.SendEachForMulticast(ctx, msg)
		if err != nil {
			return fmt.Errorf("failed to send FCM multicast: %w", err)
		}

		failures += resp.FailureCount
		for i, send := range resp.Responses {
			if send.Error == nil {
				continue
			}
			if messaging.IsUnregistered(send.Error) || messaging.IsInvalidArgument(send.Error) {
				log.Printf("Invalid FCM token (deactivating): %s", batch[i])
				c.deactivateToken(ctx, batch[i])
			}
		}
	}

	if failures > 0 {
		log.Printf("FCM delivery: %d of %d tokens failed", failures, len(tokens))
	}
	return nil
}

func (c *Client) deactivateToken(ctx context.Context, token string) {
	if c.deactivator == nil {
		return
	}
	if err := c.deactivator(ctx, token); err != nil {
		log.Printf("Failed to deactivate FCM token: %v", err)
	}
}

func chunkTokens(tokens []string, size int) [][]string {
	var chunks [][]string
	for len(tokens) > size {
		chunks = append(chunks, tokens[:size])
		tokens = tokens[size:]
	}
	return append(chunks, tokens)
}
