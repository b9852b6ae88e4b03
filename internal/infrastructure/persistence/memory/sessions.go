package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

type SessionRepository struct {
	mu       sync.RWMutex
	sessions []domain.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

func (r *SessionRepository) Insert(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, *session)
	return nil
}

func (r *SessionRepository) ListByUsers(ctx context.Context, userIDs []string) ([]*domain.Session, error) {
	out := r.filter(userIDs, nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *SessionRepository) ListInRange(ctx context.Context, userIDs []string, tr domain.TimeRange) ([]*domain.Session, error) {
	out := r.filter(userIDs, &tr)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *SessionRepository) filter(userIDs []string, tr *domain.TimeRange) []*domain.Session {
	ids := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		ids[id] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Session, 0)
	for _, s := range r.sessions {
		if _, ok := ids[s.UserID]; !ok {
			continue
		}
		if tr != nil && !tr.Contains(s.Date) {
			continue
		}
		s := s
		out = append(out, &s)
	}
	return out
}

var _ ports.SessionRepository = (*SessionRepository)(nil)
