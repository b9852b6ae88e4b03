// Package retention removes anonymous data that was never claimed by a signed-in user.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
)

// Target is one purgeable collection.
type Target struct {
	Name   string
	Purger ports.TemporaryPurger
}

// Result counts deleted rows per target, in target order.
type Result struct {
	Name    string
	Deleted int64
}

// PurgeTemporary deletes anonymous projects, tasks and labels older than olderThanDays.
// olderThanDays 0 is a no-op. It stops at the first failing target.
func PurgeTemporary(ctx context.Context, targets []Target, olderThanDays int, now time.Time) ([]Result, error) {
	if olderThanDays <= 0 {
		return nil, nil
	}
	cutoff := now.Add(-time.Duration(olderThanDays) * 24 * time.Hour)
	results := make([]Result, 0, len(targets))
	for _, t := range targets {
		n, err := t.Purger.PurgeTemporary(ctx, cutoff)
		if err != nil {
			return results, fmt.Errorf("purge %s: %w", t.Name, err)
		}
		results = append(results, Result{Name: t.Name, Deleted: n})
	}
	return results, nil
}
