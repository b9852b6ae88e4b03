package queue

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
)

// NoopEnqueuer is a no-op enqueuer when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueEvent(ctx context.Context, event string, payload interface{}) error {
	return nil
}

var _ ports.EventEnqueuer = (*NoopEnqueuer)(nil)
