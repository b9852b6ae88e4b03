package task

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// MaxReorderBatch bounds a single reorder request.
const MaxReorderBatch = 1000

// ReorderInput is an unordered batch of order (and optional project) assignments.
type ReorderInput struct {
	Scope   domain.Scope
	Updates []ports.OrderUpdate
}

// Reorder applies a bulk reorder. Entries outside the scope or with malformed ids match nothing.
type Reorder struct {
	tasks ports.TaskRepository
}

// NewReorder builds the use case.
func NewReorder(tasks ports.TaskRepository) *Reorder {
	return &Reorder{tasks: tasks}
}

// Execute writes the well-formed entries and reports matched/modified counts.
func (uc *Reorder) Execute(ctx context.Context, input ReorderInput) (ports.BulkResult, error) {
	if input.Scope.IsZero() {
		return ports.BulkResult{}, domerrors.ErrUnauthorized
	}
	if len(input.Updates) == 0 {
		return ports.BulkResult{}, domerrors.NewValidationError("updates", "must not be empty")
	}
	if len(input.Updates) > MaxReorderBatch {
		return ports.BulkResult{}, domerrors.NewValidationError("updates", "too many entries")
	}
	valid := make([]ports.OrderUpdate, 0, len(input.Updates))
	for _, u := range input.Updates {
		if !domain.IsValidID(u.ID) || u.Order < 0 {
			continue
		}
		if u.ProjectID != "" && !domain.IsValidID(u.ProjectID) {
			continue
		}
		valid = append(valid, u)
	}
	if len(valid) == 0 {
		return ports.BulkResult{}, nil
	}
	return uc.tasks.ApplyOrder(ctx, input.Scope, valid)
}
