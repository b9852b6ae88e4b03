package task

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// MoveTaskInput drags a task into ToProjectID, in front of BeforeTaskID (or to the tail when empty).
type MoveTaskInput struct {
	Scope        domain.Scope
	TaskID       string
	ToProjectID  string
	BeforeTaskID string
}

// MoveTask reindexes the source and destination active lists and submits them as one reorder.
type MoveTask struct {
	tasks ports.TaskRepository
}

// NewMoveTask builds the use case.
func NewMoveTask(tasks ports.TaskRepository) *MoveTask {
	return &MoveTask{tasks: tasks}
}

// Execute moves an active top-level task. Subtasks and completed tasks cannot be dragged.
func (uc *MoveTask) Execute(ctx context.Context, input MoveTaskInput) (ports.BulkResult, error) {
	if input.Scope.IsZero() {
		return ports.BulkResult{}, domerrors.ErrUnauthorized
	}
	var details []domerrors.FieldError
	if !domain.IsValidID(input.TaskID) {
		details = append(details, domerrors.FieldError{Path: "id", Message: "must be a valid id"})
	}
	if !domain.IsValidID(input.ToProjectID) {
		details = append(details, domerrors.FieldError{Path: "toProjectId", Message: "must be a valid id"})
	}
	if input.BeforeTaskID != "" && !domain.IsValidID(input.BeforeTaskID) {
		details = append(details, domerrors.FieldError{Path: "beforeTaskId", Message: "must be a valid id"})
	}
	if len(details) > 0 {
		return ports.BulkResult{}, &domerrors.ValidationError{Details: details}
	}
	moving, err := uc.tasks.Get(ctx, input.Scope, input.TaskID)
	if err != nil {
		return ports.BulkResult{}, err
	}
	if moving == nil {
		return ports.BulkResult{}, domerrors.ErrTaskNotFound
	}
	if !moving.IsTopLevel() || moving.Completed {
		return ports.BulkResult{}, domerrors.NewValidationError("id", "only active top-level tasks can be moved")
	}
	source, err := uc.activeTopLevel(ctx, input.Scope, moving.ProjectID)
	if err != nil {
		return ports.BulkResult{}, err
	}
	dest := source
	if input.ToProjectID != moving.ProjectID {
		if dest, err = uc.activeTopLevel(ctx, input.Scope, input.ToProjectID); err != nil {
			return ports.BulkResult{}, err
		}
	}
	updates := PlanMove(source, dest, moving, input.ToProjectID, input.BeforeTaskID)
	return uc.tasks.ApplyOrder(ctx, input.Scope, updates)
}

func (uc *MoveTask) activeTopLevel(ctx context.Context, scope domain.Scope, projectID string) ([]*domain.Task, error) {
	all, err := uc.tasks.List(ctx, scope, ports.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Task, 0, len(all))
	for _, t := range all {
		if t.IsTopLevel() && !t.Completed {
			out = append(out, t)
		}
	}
	domain.SortTasks(out)
	return out, nil
}

// PlanMove computes the full reindexing of both lists after moving a task.
// source and dest are sorted active top-level lists and are the same slice for an in-project move.
func PlanMove(source, dest []*domain.Task, moving *domain.Task, toProjectID, beforeTaskID string) []ports.OrderUpdate {
	without := func(list []*domain.Task) []*domain.Task {
		out := make([]*domain.Task, 0, len(list))
		for _, t := range list {
			if t.ID != moving.ID {
				out = append(out, t)
			}
		}
		return out
	}
	sameProject := toProjectID == moving.ProjectID
	target := without(dest)
	pos := len(target)
	for i, t := range target {
		if t.ID == beforeTaskID {
			pos = i
			break
		}
	}
	target = append(target[:pos], append([]*domain.Task{moving}, target[pos:]...)...)

	var updates []ports.OrderUpdate
	if !sameProject {
		for i, t := range without(source) {
			updates = append(updates, ports.OrderUpdate{ID: t.ID, Order: i})
		}
	}
	for i, t := range target {
		u := ports.OrderUpdate{ID: t.ID, Order: i}
		if t.ID == moving.ID && !sameProject {
			u.ProjectID = toProjectID
		}
		updates = append(updates, u)
	}
	return updates
}
