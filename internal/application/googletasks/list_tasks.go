package googletasks

import (
	"context"
	"errors"
	"net/http"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

const reconnectInstructions = "Sign in with Google again and allow access to Google Tasks."

// Refresher renews a user's stored Google grant.
type Refresher interface {
	Execute(ctx context.Context, scope domain.Scope) (*domain.GoogleTokens, error)
}

// ListTasks proxies the user's default Google Tasks list.
type ListTasks struct {
	users     ports.UserRepository
	google    ports.GoogleClient
	refresher Refresher
}

func NewListTasks(users ports.UserRepository, google ports.GoogleClient, refresher Refresher) *ListTasks {
	return &ListTasks{users: users, google: google, refresher: refresher}
}

// Execute retries once with a refreshed access token when Google answers 401.
func (uc *ListTasks) Execute(ctx context.Context, scope domain.Scope) ([]ports.GoogleTask, error) {
	userID, ok := scope.UserID()
	if !ok {
		return nil, domerrors.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if !user.HasGoogleAccess() {
		return nil, &domerrors.UpstreamError{
			Status:       http.StatusUnauthorized,
			Message:      "google account not connected",
			Instructions: reconnectInstructions,
		}
	}
	access := user.Google.AccessToken
	if access != "" {
		tasks, err := uc.google.ListTasks(ctx, access)
		if err == nil {
			return tasks, nil
		}
		if !errors.Is(err, domerrors.ErrInvalidToken) {
			return nil, err
		}
	}
	grant, err := uc.refresher.Execute(ctx, scope)
	if err != nil {
		if errors.Is(err, domerrors.ErrGoogleReauth) || errors.Is(err, domerrors.ErrGoogleNotLinked) {
			return nil, &domerrors.UpstreamError{
				Status:       http.StatusUnauthorized,
				Message:      "google authorization expired",
				Instructions: reconnectInstructions,
			}
		}
		return nil, err
	}
	tasks, err := uc.google.ListTasks(ctx, grant.AccessToken)
	if errors.Is(err, domerrors.ErrInvalidToken) {
		return nil, &domerrors.UpstreamError{
			Status:       http.StatusUnauthorized,
			Message:      "google rejected the refreshed token",
			Instructions: reconnectInstructions,
		}
	}
	return tasks, err
}
