package ports

import "time"

// RefreshClaims identify a refresh token.
type RefreshClaims struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
}

// TokenIssuer signs and validates local access and refresh tokens.
type TokenIssuer interface {
	IssueAccessToken(userID string, expiresInSeconds int64) (string, error)
	ValidateAccessToken(tokenString string) (userID string, err error)
	IssueRefreshToken(userID string, expiresInSeconds int64) (token string, claims RefreshClaims, err error)
	ValidateRefreshToken(tokenString string) (RefreshClaims, error)
}
