package ports

import "context"

// WebhookEvent is the body POSTed to the configured webhook endpoint.
type WebhookEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// WebhookEmitter sends events to an external endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, event WebhookEvent) error
}
