package project

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// DeleteProjectInput names the project to remove.
type DeleteProjectInput struct {
	Scope     domain.Scope
	ProjectID string
}

// DeleteProjectResult reports how many tasks went with the project.
type DeleteProjectResult struct {
	TasksDeleted int64
}

// DeleteProject removes a project and every task under it in the same scope.
type DeleteProject struct {
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
	events   ports.EventEnqueuer
}

// NewDeleteProject builds the use case. events may be nil.
func NewDeleteProject(projects ports.ProjectRepository, tasks ports.TaskRepository, events ports.EventEnqueuer) *DeleteProject {
	return &DeleteProject{projects: projects, tasks: tasks, events: events}
}

// Execute deletes the project's tasks, then the project.
func (uc *DeleteProject) Execute(ctx context.Context, input DeleteProjectInput) (*DeleteProjectResult, error) {
	if input.Scope.IsZero() {
		return nil, domerrors.ErrUnauthorized
	}
	if !domain.IsValidID(input.ProjectID) {
		return nil, domerrors.NewValidationError("id", "must be a valid id")
	}
	p, err := uc.projects.Get(ctx, input.Scope, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	n, err := uc.tasks.DeleteByProject(ctx, input.Scope, p.ID)
	if err != nil {
		return nil, fmt.Errorf("delete project tasks: %w", err)
	}
	ok, err := uc.projects.Delete(ctx, input.Scope, p.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domerrors.ErrProjectNotFound
	}
	if uc.events != nil {
		_ = uc.events.EnqueueEvent(ctx, ports.EventProjectDeleted, map[string]interface{}{
			"project_id":    p.ID,
			"scope":         input.Scope.Kind().String(),
			"tasks_deleted": n,
		})
	}
	return &DeleteProjectResult{TasksDeleted: n}, nil
}
