package memory

import (
	"context"
	"sync"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
)

// RefreshLedger is a single-instance ledger of consumed refresh tokens. For multi-instance, use Redis.
type RefreshLedger struct {
	mu   sync.Mutex
	used map[string]time.Time
}

func NewRefreshLedger() *RefreshLedger {
	return &RefreshLedger{used: make(map[string]time.Time)}
}

func (l *RefreshLedger) Consume(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	for id, exp := range l.used {
		if now.After(exp) {
			delete(l.used, id)
		}
	}
	if _, ok := l.used[tokenID]; ok {
		return false, nil
	}
	l.used[tokenID] = expiresAt
	return true, nil
}

var _ ports.RefreshLedger = (*RefreshLedger)(nil)
