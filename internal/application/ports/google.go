package ports

import (
	"context"
	"time"
)

// GoogleProfile is the identity resolved from a Google credential.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleToken is a refreshed Google API access token.
type GoogleToken struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// GoogleTask is one entry of the user's default Google Tasks list.
type GoogleTask struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	Notes   string `json:"notes,omitempty"`
	Due     string `json:"due,omitempty"`
	Updated string `json:"updated,omitempty"`
}

// GoogleClient talks to Google's identity and Tasks APIs.
type GoogleClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleProfile, error)
	UserInfo(ctx context.Context, accessToken string) (*GoogleProfile, error)
	// Refresh exchanges a refresh token; a revoked grant yields errors.ErrGoogleReauth.
	Refresh(ctx context.Context, refreshToken string) (*GoogleToken, error)
	// ListTasks returns the default list; an expired token yields errors.ErrInvalidToken.
	ListTasks(ctx context.Context, accessToken string) ([]GoogleTask, error)
}
