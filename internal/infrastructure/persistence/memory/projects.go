package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{projects: make(map[string]domain.Project)}
}

func (r *ProjectRepository) Insert(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = *project
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok || !scope.Owns(p.Owner) {
		return nil, nil
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, scope domain.Scope) ([]*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Project, 0)
	for _, p := range r.projects {
		if scope.Owns(p.Owner) {
			p := p
			out = append(out, &p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ProjectRepository) UpdateHeaderColor(ctx context.Context, scope domain.Scope, id string, color domain.HeaderColor) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || !scope.Owns(p.Owner) {
		return nil, nil
	}
	p.HeaderColor = color
	p.UpdatedAt = time.Now()
	r.projects[id] = p
	return &p, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, scope domain.Scope, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || !scope.Owns(p.Owner) {
		return false, nil
	}
	delete(r.projects, id)
	return true, nil
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
