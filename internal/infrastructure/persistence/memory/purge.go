package memory

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

func expiredTemporary(o domain.Owner, createdAt, before time.Time) bool {
	return o.IsTemporary && o.UserID == "" && createdAt.Before(before)
}

func (r *TaskRepository) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tasks {
		if expiredTemporary(t.Owner, t.CreatedAt, before) {
			delete(r.tasks, id)
			n++
		}
	}
	return n, nil
}

func (r *ProjectRepository) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.projects {
		if expiredTemporary(p.Owner, p.CreatedAt, before) {
			delete(r.projects, id)
			n++
		}
	}
	return n, nil
}

func (r *LabelRepository) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.labels[:0]
	var n int64
	for _, l := range r.labels {
		if expiredTemporary(l.Owner, l.CreatedAt, before) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.labels = kept
	return n, nil
}
