package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Worker delivers queued events to the webhook emitter.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisConnOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	w := &Worker{srv: srv, emitter: emitter, log: log}
	w.mux = asynq.NewServeMux()
	w.mux.HandleFunc(TypeDeliverEvent, w.HandleDeliverEvent)
	return w
}

// HandleDeliverEvent posts one event; a returned error makes asynq retry it.
func (w *Worker) HandleDeliverEvent(ctx context.Context, t *asynq.Task) error {
	var ev ports.WebhookEvent
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		w.log.Error().Err(err).Msg("event task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := w.emitter.Emit(ctx, ev); err != nil {
		w.log.Warn().Err(err).Str("event", ev.Event).Msg("webhook delivery failed")
		return err
	}
	w.log.Debug().Str("event", ev.Event).Msg("webhook delivered")
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
