// Package memory holds process-local repositories for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[string]domain.Task)}
}

func (r *TaskRepository) Insert(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok || !scope.Owns(t.Owner) {
		return nil, nil
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context, scope domain.Scope, filter ports.TaskFilter) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Task, 0)
	for _, t := range r.tasks {
		if !scope.Owns(t.Owner) {
			continue
		}
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			continue
		}
		t := t
		out = append(out, &t)
	}
	domain.SortTasks(out)
	return out, nil
}

func (r *TaskRepository) MaxOrder(ctx context.Context, scope domain.Scope, bucket domain.Bucket) (int, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	max, found := 0, false
	for _, t := range r.tasks {
		if !scope.Owns(t.Owner) || t.Bucket() != bucket {
			continue
		}
		if !found || t.Order > max {
			max, found = t.Order, true
		}
	}
	return max, found, nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, scope domain.Scope, id string, completed bool, order int) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || !scope.Owns(t.Owner) {
		return nil, nil
	}
	t.Completed = completed
	t.Order = order
	t.UpdatedAt = time.Now()
	r.tasks[id] = t
	return &t, nil
}

func (r *TaskRepository) CloseGap(ctx context.Context, scope domain.Scope, bucket domain.Bucket, order int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tasks {
		if !scope.Owns(t.Owner) || t.Bucket() != bucket || t.Order <= order {
			continue
		}
		t.Order--
		r.tasks[id] = t
	}
	return nil
}

func (r *TaskRepository) ApplyOrder(ctx context.Context, scope domain.Scope, updates []ports.OrderUpdate) (ports.BulkResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res ports.BulkResult
	for _, u := range updates {
		t, ok := r.tasks[u.ID]
		if !ok || !scope.Owns(t.Owner) {
			continue
		}
		res.Matched++
		changed := t.Order != u.Order || (u.ProjectID != "" && u.ProjectID != t.ProjectID)
		if !changed {
			continue
		}
		t.Order = u.Order
		if u.ProjectID != "" {
			t.ProjectID = u.ProjectID
		}
		t.UpdatedAt = time.Now()
		r.tasks[u.ID] = t
		res.Modified++
	}
	return res, nil
}

func (r *TaskRepository) ChildIDs(ctx context.Context, scope domain.Scope, parentIDs []string, limit int) ([]string, error) {
	parents := make(map[string]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, t := range r.tasks {
		if limit > 0 && len(out) >= limit {
			break
		}
		if t.ParentTaskID == "" || !scope.Owns(t.Owner) {
			continue
		}
		if _, ok := parents[t.ParentTaskID]; ok {
			out = append(out, t.ID)
		}
	}
	return out, nil
}

func (r *TaskRepository) DeleteMany(ctx context.Context, scope domain.Scope, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if t, ok := r.tasks[id]; ok && scope.Owns(t.Owner) {
			delete(r.tasks, id)
			n++
		}
	}
	return n, nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, scope domain.Scope, projectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tasks {
		if t.ProjectID == projectID && scope.Owns(t.Owner) {
			delete(r.tasks, id)
			n++
		}
	}
	return n, nil
}

var _ ports.TaskRepository = (*TaskRepository)(nil)
