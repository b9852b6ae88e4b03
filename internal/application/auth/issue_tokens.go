package auth

import (
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

const (
	DefaultAccessTokenExpiry  = 3600   // 1 hour
	DefaultRefreshTokenExpiry = 259200 // 3 days
)

// TokenPair is a local access token plus the refresh token sent as an HTTP-only cookie.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiresIn        int64
	RefreshExpiresAt time.Time
}

// IssueTokens mints a token pair for a user id.
type IssueTokens struct {
	issuer     ports.TokenIssuer
	accessExp  int64
	refreshExp int64
}

// NewIssueTokens builds the use case; non-positive expiries fall back to the defaults.
func NewIssueTokens(issuer ports.TokenIssuer, accessExp, refreshExp int64) *IssueTokens {
	if accessExp <= 0 {
		accessExp = DefaultAccessTokenExpiry
	}
	if refreshExp <= 0 {
		refreshExp = DefaultRefreshTokenExpiry
	}
	return &IssueTokens{issuer: issuer, accessExp: accessExp, refreshExp: refreshExp}
}

// RefreshExpiry returns the refresh token lifetime in seconds.
func (uc *IssueTokens) RefreshExpiry() int64 { return uc.refreshExp }

// Execute issues a pair for userID.
func (uc *IssueTokens) Execute(userID string) (*TokenPair, error) {
	id := domain.NormalizeScopeID(userID)
	if id == "" {
		return nil, domerrors.NewValidationError("userId", "is required")
	}
	access, err := uc.issuer.IssueAccessToken(id, uc.accessExp)
	if err != nil {
		return nil, err
	}
	refresh, claims, err := uc.issuer.IssueRefreshToken(id, uc.refreshExp)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        uc.accessExp,
		RefreshExpiresAt: claims.ExpiresAt,
	}, nil
}
