package session

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// ListSessions returns every session of the caller, newest first.
type ListSessions struct {
	sessions ports.SessionRepository
	users    ports.UserRepository
}

// NewListSessions builds the use case.
func NewListSessions(sessions ports.SessionRepository, users ports.UserRepository) *ListSessions {
	return &ListSessions{sessions: sessions, users: users}
}

func (uc *ListSessions) Execute(ctx context.Context, scope domain.Scope) ([]*domain.Session, error) {
	userID, ok := scope.UserID()
	if !ok {
		return nil, domerrors.ErrUnauthorized
	}
	ids, err := identityIDs(ctx, uc.users, userID)
	if err != nil {
		return nil, err
	}
	return uc.sessions.ListByUsers(ctx, ids)
}
