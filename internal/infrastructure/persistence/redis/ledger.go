// Package redis keeps the refresh-token ledger in Redis so rotation holds across instances.
package redis

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "pomotrack:refresh:"

type RefreshLedger struct {
	client goredis.UniversalClient
}

func NewRefreshLedger(client goredis.UniversalClient) *RefreshLedger {
	return &RefreshLedger{client: client}
}

// Consume uses SETNX so exactly one caller wins a given token id.
func (l *RefreshLedger) Consume(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return l.client.SetNX(ctx, keyPrefix+tokenID, 1, ttl).Result()
}

func (l *RefreshLedger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

var (
	_ ports.RefreshLedger = (*RefreshLedger)(nil)
	_ ports.Pinger        = (*RefreshLedger)(nil)
)
