package auth

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

type RefreshInput struct {
	RefreshToken string
}

// Refresh rotates a refresh token: each one is accepted once and replaced by a new pair.
type Refresh struct {
	issuer ports.TokenIssuer
	ledger ports.RefreshLedger
	tokens *IssueTokens
}

func NewRefresh(issuer ports.TokenIssuer, ledger ports.RefreshLedger, tokens *IssueTokens) *Refresh {
	return &Refresh{issuer: issuer, ledger: ledger, tokens: tokens}
}

func (uc *Refresh) Execute(ctx context.Context, input RefreshInput) (*TokenPair, error) {
	if input.RefreshToken == "" {
		return nil, errors.ErrInvalidToken
	}
	claims, err := uc.issuer.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.ErrInvalidToken
	}
	first, err := uc.ledger.Consume(ctx, claims.TokenID, claims.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if !first {
		return nil, errors.ErrRefreshTokenReuse
	}
	return uc.tokens.Execute(claims.UserID)
}
