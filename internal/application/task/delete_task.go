package task

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

const (
	// MaxCascadeNodes is the most tasks one delete may remove, root included.
	MaxCascadeNodes = 10000
	cascadeBatch    = 50
	childFetchLimit = 5000
)

// DeleteTaskInput names the subtree root.
type DeleteTaskInput struct {
	Scope  domain.Scope
	TaskID string
}

// DeleteTask removes a task and all of its descendants.
type DeleteTask struct {
	tasks    ports.TaskRepository
	maxNodes int
}

// NewDeleteTask builds the use case.
func NewDeleteTask(tasks ports.TaskRepository) *DeleteTask {
	return &DeleteTask{tasks: tasks, maxNodes: MaxCascadeNodes}
}

// Execute walks the subtree breadth first, deletes it in one batch, then closes the root's slot.
// Nothing is deleted when the subtree is larger than the node cap.
func (uc *DeleteTask) Execute(ctx context.Context, input DeleteTaskInput) (int64, error) {
	if input.Scope.IsZero() {
		return 0, domerrors.ErrUnauthorized
	}
	if !domain.IsValidID(input.TaskID) {
		return 0, domerrors.NewValidationError("id", "must be a valid id")
	}
	root, err := uc.tasks.Get(ctx, input.Scope, input.TaskID)
	if err != nil {
		return 0, err
	}
	if root == nil {
		return 0, domerrors.ErrTaskNotFound
	}
	ids, err := uc.collect(ctx, input.Scope, root.ID)
	if err != nil {
		return 0, err
	}
	n, err := uc.tasks.DeleteMany(ctx, input.Scope, ids)
	if err != nil {
		return 0, err
	}
	if err := uc.tasks.CloseGap(ctx, input.Scope, root.Bucket(), root.Order); err != nil {
		return n, fmt.Errorf("close gap: %w", err)
	}
	return n, nil
}

func (uc *DeleteTask) collect(ctx context.Context, scope domain.Scope, rootID string) ([]string, error) {
	visited := map[string]struct{}{rootID: {}}
	ids := []string{rootID}
	queue := []string{rootID}
	for len(queue) > 0 {
		n := cascadeBatch
		if n > len(queue) {
			n = len(queue)
		}
		batch := queue[:n]
		queue = queue[n:]
		children, err := uc.tasks.ChildIDs(ctx, scope, batch, childFetchLimit)
		if err != nil {
			return nil, fmt.Errorf("load children: %w", err)
		}
		for _, id := range children {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			ids = append(ids, id)
			if len(ids) > uc.maxNodes {
				return nil, domerrors.ErrLimitExceeded
			}
			queue = append(queue, id)
		}
	}
	return ids, nil
}
