package domain

import "time"

// GoogleTokens are the Google API credentials stored for a user.
type GoogleTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

// User is a registered account, unique by email.
type User struct {
	ID        string
	Name      string
	Email     string
	ImageURL  string
	Google    GoogleTokens
	GoogleSub string // legacy identifier some historical sessions were recorded under
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasGoogleAccess reports whether any Google credential is stored.
func (u *User) HasGoogleAccess() bool {
	return u.Google.AccessToken != "" || u.Google.RefreshToken != ""
}
