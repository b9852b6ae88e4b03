package middleware

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

type contextKey string

const scopeContextKey contextKey = "scope"

// WithScope injects the resolved caller scope into the context.
func WithScope(ctx context.Context, scope domain.Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey, scope)
}

// ScopeFromContext returns the caller scope, or the zero scope when none was resolved.
func ScopeFromContext(ctx context.Context) domain.Scope {
	s, _ := ctx.Value(scopeContextKey).(domain.Scope)
	return s
}
