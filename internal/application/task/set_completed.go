package task

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// SetCompletedInput toggles one task. A nil Completed leaves the task as is.
type SetCompletedInput struct {
	Scope     domain.Scope
	TaskID    string
	Completed *bool
}

// SetCompleted moves a task between its active and completed buckets.
type SetCompleted struct {
	tasks ports.TaskRepository
}

// NewSetCompleted builds the use case.
func NewSetCompleted(tasks ports.TaskRepository) *SetCompleted {
	return &SetCompleted{tasks: tasks}
}

// Execute lands a toggled task at the tail of its new bucket and shifts the siblings it left behind
// down by one. An unchanged state is a no-op.
func (uc *SetCompleted) Execute(ctx context.Context, input SetCompletedInput) (*domain.Task, error) {
	if input.Scope.IsZero() {
		return nil, domerrors.ErrUnauthorized
	}
	if !domain.IsValidID(input.TaskID) {
		return nil, domerrors.NewValidationError("id", "must be a valid id")
	}
	t, err := uc.tasks.Get(ctx, input.Scope, input.TaskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrTaskNotFound
	}
	if input.Completed == nil || t.Completed == *input.Completed {
		return t, nil
	}
	completed := *input.Completed
	target := domain.Bucket{ProjectID: t.ProjectID, ParentTaskID: t.ParentTaskID, Completed: completed}
	maxOrder, ok, err := uc.tasks.MaxOrder(ctx, input.Scope, target)
	if err != nil {
		return nil, err
	}
	updated, err := uc.tasks.SetCompleted(ctx, input.Scope, t.ID, completed, domain.NextOrder(maxOrder, ok))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domerrors.ErrTaskNotFound
	}
	if err := uc.tasks.CloseGap(ctx, input.Scope, t.Bucket(), t.Order); err != nil {
		return nil, fmt.Errorf("close gap: %w", err)
	}
	return updated, nil
}
