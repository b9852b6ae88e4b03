// Package postgres implements the repositories on PostgreSQL via pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

var errNoScope = errors.New("postgres: query without scope")

// Open connects a pool and verifies it with a ping.
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return pool, nil
}

// Migrate creates tables and indexes if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}

// scopePredicate returns the WHERE clause, bound to $1, that selects rows owned by scope.
// Anonymous rows must also carry no user id.
func scopePredicate(scope domain.Scope) (string, error) {
	if scope.IsZero() {
		return "", errNoScope
	}
	switch scope.Kind() {
	case domain.ScopeUser:
		return "user_id = $1", nil
	case domain.ScopeAnonymous:
		return "session_id = $1 AND user_id IS NULL", nil
	}
	return "", errNoScope
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
