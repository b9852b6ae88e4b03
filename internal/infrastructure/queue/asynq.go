package queue

import (
	"context"
	"encoding/json"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TypeDeliverEvent carries one domain event to the webhook worker.
const TypeDeliverEvent = "event:deliver"

type EventEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisConnOpt, log zerolog.Logger) *EventEnqueuer {
	return &EventEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *EventEnqueuer) Close() error {
	return q.client.Close()
}

// NewEventTask encodes an event as an asynq task.
func NewEventTask(event string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(ports.WebhookEvent{Event: event, Payload: payload})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeliverEvent, body, asynq.MaxRetry(5)), nil
}

func (q *EventEnqueuer) EnqueueEvent(ctx context.Context, event string, payload interface{}) error {
	task, err := NewEventTask(event, payload)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("event", event).Msg("enqueue event failed")
		return err
	}
	return nil
}

var _ ports.EventEnqueuer = (*EventEnqueuer)(nil)
