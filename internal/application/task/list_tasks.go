package task

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// ListTasks returns the scope's tasks sorted by order, then creation time.
type ListTasks struct {
	tasks ports.TaskRepository
}

// NewListTasks builds the use case.
func NewListTasks(tasks ports.TaskRepository) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists one project's tasks, or every task when projectID is empty.
func (uc *ListTasks) Execute(ctx context.Context, scope domain.Scope, projectID string) ([]*domain.Task, error) {
	if scope.IsZero() {
		return nil, domerrors.ErrUnauthorized
	}
	if projectID != "" && !domain.IsValidID(projectID) {
		return nil, domerrors.NewValidationError("projectId", "must be a valid id")
	}
	list, err := uc.tasks.List(ctx, scope, ports.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	domain.SortTasks(list)
	return list, nil
}
