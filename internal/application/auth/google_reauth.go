package auth

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// GoogleReauthInput carries a fresh Google grant for the signed-in user.
type GoogleReauthInput struct {
	Scope        domain.Scope
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// GoogleReauth replaces the stored Google tokens after the user re-consents.
type GoogleReauth struct {
	users ports.UserRepository
}

func NewGoogleReauth(users ports.UserRepository) *GoogleReauth {
	return &GoogleReauth{users: users}
}

// Execute keeps the previous refresh token when Google did not send a new one.
func (uc *GoogleReauth) Execute(ctx context.Context, input GoogleReauthInput) (*domain.User, error) {
	userID, ok := input.Scope.UserID()
	if !ok {
		return nil, domerrors.ErrUnauthorized
	}
	if input.AccessToken == "" {
		return nil, domerrors.NewValidationError("accessToken", "is required")
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	grant := domain.GoogleTokens{AccessToken: input.AccessToken, RefreshToken: input.RefreshToken}
	if grant.RefreshToken == "" {
		grant.RefreshToken = user.Google.RefreshToken
	}
	if input.ExpiresIn > 0 {
		exp := time.Now().Add(time.Duration(input.ExpiresIn) * time.Second)
		grant.ExpiresAt = &exp
	}
	if err := uc.users.SetGoogleTokens(ctx, user.ID, grant); err != nil {
		return nil, err
	}
	user.Google = grant
	return user, nil
}
