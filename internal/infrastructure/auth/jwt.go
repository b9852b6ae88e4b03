package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenIssuer implements ports.TokenIssuer with RS256.
type TokenIssuer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	audience   string
	now        func() time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
}

func NewTokenIssuer(privateKey *rsa.PrivateKey, issuer, audience string) *TokenIssuer {
	return &TokenIssuer{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

func (t *TokenIssuer) IssueAccessToken(userID string, expiresInSeconds int64) (string, error) {
	token, _, err := t.sign(tokenTypeAccess, userID, expiresInSeconds)
	return token, err
}

func (t *TokenIssuer) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := t.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (t *TokenIssuer) IssueRefreshToken(userID string, expiresInSeconds int64) (string, ports.RefreshClaims, error) {
	token, claims, err := t.sign(tokenTypeRefresh, userID, expiresInSeconds)
	if err != nil {
		return "", ports.RefreshClaims{}, err
	}
	return token, ports.RefreshClaims{TokenID: claims.ID, UserID: userID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (t *TokenIssuer) ValidateRefreshToken(tokenString string) (ports.RefreshClaims, error) {
	claims, err := t.parse(tokenString, tokenTypeRefresh)
	if err != nil {
		return ports.RefreshClaims{}, err
	}
	if claims.ID == "" {
		return ports.RefreshClaims{}, domerrors.ErrInvalidToken
	}
	return ports.RefreshClaims{TokenID: claims.ID, UserID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (t *TokenIssuer) sign(typ, userID string, expiresInSeconds int64) (string, *tokenClaims, error) {
	now := t.now()
	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresInSeconds) * time.Second)),
		},
		Type: typ,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(t.privateKey)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// parse verifies signature, issuer, audience and expiry. Every failure maps to ErrInvalidToken.
func (t *TokenIssuer) parse(tokenString, typ string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.publicKey, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, domerrors.ErrInvalidToken
	}
	if claims.Type != typ || claims.Subject == "" {
		return nil, domerrors.ErrInvalidToken
	}
	return claims, nil
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)
