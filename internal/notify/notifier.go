package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/domain"
)

// Notifier delivers registration-outcome notifications. Delivery is
// best-effort: a failed send never affects the job that triggered it.
//
//go:generate mockgen -source=notifier.go -destination=../mocks/notifier.go -package=mocks -mock_names=Notifier=MockNotifier
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) error
}

// WebhookNotifier posts notifications to the notification service's webhook,
// which renders and sends the actual email.
type WebhookNotifier struct {
	webhookURL string
	httpClient adapter.HTTPClient
}

// NewWebhookNotifier creates a webhook-backed notifier
func NewWebhookNotifier(webhookURL string, httpClient adapter.HTTPClient) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if _, err := n.httpClient.Post(ctx, n.webhookURL, "application/json", nil, bytes.NewReader(body)); err != nil {
		return &domain.ExternalServiceError{Service: "notification webhook", Err: err}
	}

	return nil
}
