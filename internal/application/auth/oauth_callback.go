package auth

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// OAuthUser is what the redirect flow returns for a Google account.
type OAuthUser struct {
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
	AccessToken    string
	RefreshToken   string
	ExpiresAt      time.Time
}

// OAuthCallback links the user returned by the redirect flow and issues tokens.
type OAuthCallback struct {
	linker *GoogleLinker
}

// NewOAuthCallback builds the use case.
func NewOAuthCallback(linker *GoogleLinker) *OAuthCallback {
	return &OAuthCallback{linker: linker}
}

func (uc *OAuthCallback) Execute(ctx context.Context, oauth OAuthUser) (*GoogleSignInResult, error) {
	if oauth.Email == "" {
		return nil, domerrors.ErrInvalidToken
	}
	grant := domain.GoogleTokens{AccessToken: oauth.AccessToken, RefreshToken: oauth.RefreshToken}
	if !oauth.ExpiresAt.IsZero() {
		exp := oauth.ExpiresAt
		grant.ExpiresAt = &exp
	}
	return uc.linker.Link(ctx, ports.GoogleProfile{
		Subject: oauth.ProviderUserID,
		Email:   oauth.Email,
		Name:    oauth.Name,
		Picture: oauth.AvatarURL,
	}, grant)
}
