package ports

import "context"

// Event types delivered asynchronously.
const (
	EventSessionRecorded = "session.recorded"
	EventProjectDeleted  = "project.deleted"
	EventUserSignedIn    = "user.signed_in"
)

// EventEnqueuer hands domain events to the background queue.
type EventEnqueuer interface {
	EnqueueEvent(ctx context.Context, event string, payload interface{}) error
}
