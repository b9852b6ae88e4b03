package auth

import (
	"context"
	"strings"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// GoogleSignInInput carries the credential posted by the browser. Credential is either a Google
// ID token (JWT) or an OAuth access token; AccessToken/RefreshToken are optional API grants.
type GoogleSignInInput struct {
	Credential   string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// GoogleSignInResult is the local session plus the linked user.
type GoogleSignInResult struct {
	Tokens  *TokenPair
	User    *domain.User
	Created bool
}

// GoogleSignIn exchanges a Google credential for a local user and token pair.
type GoogleSignIn struct {
	google ports.GoogleClient
	linker *GoogleLinker
}

// NewGoogleSignIn builds the use case.
func NewGoogleSignIn(google ports.GoogleClient, linker *GoogleLinker) *GoogleSignIn {
	return &GoogleSignIn{google: google, linker: linker}
}

// IsIDToken reports whether a credential is JWT-shaped (two '.' separators).
func IsIDToken(credential string) bool {
	return strings.Count(credential, ".") == 2
}

func (uc *GoogleSignIn) Execute(ctx context.Context, input GoogleSignInInput) (*GoogleSignInResult, error) {
	cred := strings.TrimSpace(input.Credential)
	if cred == "" {
		return nil, domerrors.NewValidationError("credential", "is required")
	}
	var (
		profile *ports.GoogleProfile
		err     error
	)
	grant := domain.GoogleTokens{AccessToken: input.AccessToken, RefreshToken: input.RefreshToken}
	if IsIDToken(cred) {
		profile, err = uc.google.VerifyIDToken(ctx, cred)
	} else {
		profile, err = uc.google.UserInfo(ctx, cred)
		if grant.AccessToken == "" {
			grant.AccessToken = cred
		}
	}
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	if grant.AccessToken != "" && input.ExpiresIn > 0 {
		exp := time.Now().Add(time.Duration(input.ExpiresIn) * time.Second)
		grant.ExpiresAt = &exp
	}
	return uc.linker.Link(ctx, *profile, grant)
}

// GoogleLinker finds or creates the local user for a Google profile and issues tokens.
type GoogleLinker struct {
	users  ports.UserRepository
	tokens *IssueTokens
	events ports.EventEnqueuer
}

// NewGoogleLinker builds the linker. events may be nil.
func NewGoogleLinker(users ports.UserRepository, tokens *IssueTokens, events ports.EventEnqueuer) *GoogleLinker {
	return &GoogleLinker{users: users, tokens: tokens, events: events}
}

// Link creates the user if no account has the profile's email, refreshes the stored profile
// otherwise, and stores grant when it carries an access token.
func (l *GoogleLinker) Link(ctx context.Context, profile ports.GoogleProfile, grant domain.GoogleTokens) (*GoogleSignInResult, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return nil, domerrors.NewValidationError("credential", "google account has no email")
	}
	user, err := l.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	created := false
	if user == nil {
		user = &domain.User{
			ID:        domain.NewID(),
			Name:      profile.Name,
			Email:     email,
			ImageURL:  profile.Picture,
			GoogleSub: profile.Subject,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := l.users.Create(ctx, user); err != nil {
			return nil, err
		}
		created = true
	} else {
		if profile.Name != "" {
			user.Name = profile.Name
		}
		if profile.Picture != "" {
			user.ImageURL = profile.Picture
		}
		if user.GoogleSub == "" {
			user.GoogleSub = profile.Subject
		}
		user.UpdatedAt = now
		if err := l.users.UpdateProfile(ctx, user); err != nil {
			return nil, err
		}
	}
	if grant.AccessToken != "" {
		if grant.RefreshToken == "" {
			grant.RefreshToken = user.Google.RefreshToken
		}
		if err := l.users.SetGoogleTokens(ctx, user.ID, grant); err != nil {
			return nil, err
		}
		user.Google = grant
	}
	pair, err := l.tokens.Execute(user.ID)
	if err != nil {
		return nil, err
	}
	if l.events != nil {
		_ = l.events.EnqueueEvent(ctx, ports.EventUserSignedIn, map[string]interface{}{
			"user_id": user.ID,
			"created": created,
		})
	}
	return &GoogleSignInResult{Tokens: pair, User: user, Created: created}, nil
}
