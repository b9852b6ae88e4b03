package auth

import (
	"context"
	"errors"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// RefreshGoogleToken renews the stored Google access token from the stored refresh token.
type RefreshGoogleToken struct {
	users  ports.UserRepository
	google ports.GoogleClient
}

func NewRefreshGoogleToken(users ports.UserRepository, google ports.GoogleClient) *RefreshGoogleToken {
	return &RefreshGoogleToken{users: users, google: google}
}

// Execute stores and returns the new grant. When Google rejects the refresh token the stored
// tokens are cleared and ErrGoogleReauth is returned.
func (uc *RefreshGoogleToken) Execute(ctx context.Context, scope domain.Scope) (*domain.GoogleTokens, error) {
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
	return uc.refreshUser(ctx, user)
}

func (uc *RefreshGoogleToken) refreshUser(ctx context.Context, user *domain.User) (*domain.GoogleTokens, error) {
	if user.Google.RefreshToken == "" {
		return nil, domerrors.ErrGoogleNotLinked
	}
	tok, err := uc.google.Refresh(ctx, user.Google.RefreshToken)
	if err != nil {
		if errors.Is(err, domerrors.ErrGoogleReauth) {
			if clearErr := uc.users.SetGoogleTokens(ctx, user.ID, domain.GoogleTokens{}); clearErr != nil {
				return nil, clearErr
			}
			user.Google = domain.GoogleTokens{}
		}
		return nil, err
	}
	grant := domain.GoogleTokens{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}
	if grant.RefreshToken == "" {
		grant.RefreshToken = user.Google.RefreshToken
	}
	if !tok.Expiry.IsZero() {
		exp := tok.Expiry
		grant.ExpiresAt = &exp
	}
	if err := uc.users.SetGoogleTokens(ctx, user.ID, grant); err != nil {
		return nil, err
	}
	user.Google = grant
	return &grant, nil
}
