package memory

import (
	"context"
	"sync"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

type LabelRepository struct {
	mu     sync.RWMutex
	labels []domain.Label
}

func NewLabelRepository() *LabelRepository {
	return &LabelRepository{}
}

func (r *LabelRepository) Insert(ctx context.Context, label *domain.Label) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = append(r.labels, *label)
	return nil
}

func (r *LabelRepository) List(ctx context.Context, scope domain.Scope, kind domain.LabelKind) ([]*domain.Label, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Label, 0)
	for _, l := range r.labels {
		if l.Kind == kind && scope.Owns(l.Owner) {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

var _ ports.LabelRepository = (*LabelRepository)(nil)
