// Package persistence selects a storage backend and wires its repositories.
package persistence

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/memory"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/mongo"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/postgres"
)

const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Options names the backend and its connection settings.
type Options struct {
	Backend       string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
}

// Store bundles the repositories of one backend.
type Store struct {
	Tasks    ports.TaskRepository
	Projects ports.ProjectRepository
	Sessions ports.SessionRepository
	Labels   ports.LabelRepository
	Users    ports.UserRepository
	// Pinger is nil for the memory backend.
	Pinger ports.Pinger
	close  func(context.Context) error
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Open connects the configured backend. Schema and indexes are created on connect.
func Open(ctx context.Context, opts Options) (*Store, error) {
	switch opts.Backend {
	case BackendPostgres:
		pool, err := postgres.Open(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &Store{
			Tasks:    postgres.NewTaskRepository(pool),
			Projects: postgres.NewProjectRepository(pool),
			Sessions: postgres.NewSessionRepository(pool),
			Labels:   postgres.NewLabelRepository(pool),
			Users:    postgres.NewUserRepository(pool),
			Pinger:   pingFunc(pool.Ping),
			close:    func(context.Context) error { pool.Close(); return nil },
		}, nil
	case BackendMongo:
		client, db, err := mongo.Open(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Tasks:    mongo.NewTaskRepository(db),
			Projects: mongo.NewProjectRepository(db),
			Sessions: mongo.NewSessionRepository(db),
			Labels:   mongo.NewLabelRepository(db),
			Users:    mongo.NewUserRepository(db),
			Pinger:   pingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) }),
			close:    client.Disconnect,
		}, nil
	case BackendMemory, "":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}

// NewMemoryStore returns an empty process-local store.
func NewMemoryStore() *Store {
	return &Store{
		Tasks:    memory.NewTaskRepository(),
		Projects: memory.NewProjectRepository(),
		Sessions: memory.NewSessionRepository(),
		Labels:   memory.NewLabelRepository(),
		Users:    memory.NewUserRepository(),
	}
}
