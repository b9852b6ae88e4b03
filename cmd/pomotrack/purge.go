package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/retention"
	"github.com/amirhosseinghanipour/pomotrack/internal/config"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence"
)

func purgeTargets(store *persistence.Store) []retention.Target {
	var targets []retention.Target
	for _, c := range []struct {
		name string
		repo interface{}
	}{
		{"tasks", store.Tasks},
		{"projects", store.Projects},
		{"labels", store.Labels},
	} {
		if p, ok := c.repo.(ports.TemporaryPurger); ok {
			targets = append(targets, retention.Target{Name: c.name, Purger: p})
		}
	}
	return targets
}

func purge(ctx context.Context, cfg *config.Config, log zerolog.Logger, days int) error {
	store, err := persistence.Open(ctx, storeOptions(cfg))
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}
	defer store.Close(context.Background())

	results, err := retention.PurgeTemporary(ctx, purgeTargets(store), days, time.Now())
	for _, r := range results {
		log.Info().Str("target", r.Name).Int64("deleted", r.Deleted).Int("older_than_days", days).Msg("purged anonymous data")
	}
	return err
}
