package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/auth"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
)

const (
	oauthProvider     = "google"
	oauthCallbackPath = "/api/auth/google/callback"
	googleTasksScope  = "https://www.googleapis.com/auth/tasks.readonly"
)

// InitOAuthProviders registers the Google provider and the gothic session store. Call once at startup.
// It reports whether the redirect flow is available.
func InitOAuthProviders(callbackBaseURL, sessionSecret, clientID, clientSecret string, secureCookie bool) bool {
	if clientID == "" || clientSecret == "" || callbackBaseURL == "" {
		return false
	}
	goth.UseProviders(google.New(clientID, clientSecret, callbackBaseURL+oauthCallbackPath, "email", "profile", googleTasksScope))
	if sessionSecret != "" {
		store := sessions.NewCookieStore([]byte(sessionSecret))
		store.Options.HttpOnly = true
		store.Options.Secure = secureCookie
		store.Options.SameSite = http.SameSiteLaxMode
		gothic.Store = store
	}
	return true
}

// withProvider pins gothic's provider lookup, which reads it from the query string.
func withProvider(r *http.Request) *http.Request {
	r2 := r.Clone(r.Context())
	q := r2.URL.Query()
	q.Set("provider", oauthProvider)
	r2.URL.RawQuery = q.Encode()
	return r2
}

// OAuthBegin redirects the browser to Google's consent screen.
func OAuthBegin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := goth.GetProvider(oauthProvider); err != nil {
			writeErr(w, http.StatusNotFound, ErrCodeNotFound, "google sign-in not configured")
			return
		}
		authURL, err := gothic.GetAuthURL(w, withProvider(r))
		if err != nil {
			writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
			return
		}
		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	}
}

// OAuthCallback completes the redirect flow, links the Google account and hands the access token
// to the frontend. The refresh token goes into the HTTP-only cookie.
func OAuthCallback(callback *auth.OAuthCallback, cookie RefreshCookie, redirectURL string, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gothUser, err := gothic.CompleteUserAuth(w, withProvider(r))
		if err != nil {
			AuditLog(log, r, "auth.google_redirect", domain.Scope{}, false, err.Error())
			middleware.RecordAuthAttempt("google_redirect", false)
			writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "oauth failed")
			return
		}
		res, err := callback.Execute(r.Context(), auth.OAuthUser{
			ProviderUserID: gothUser.UserID,
			Email:          gothUser.Email,
			Name:           gothUser.Name,
			AvatarURL:      gothUser.AvatarURL,
			AccessToken:    gothUser.AccessToken,
			RefreshToken:   gothUser.RefreshToken,
			ExpiresAt:      gothUser.ExpiresAt,
		})
		if err != nil {
			AuditLog(log, r, "auth.google_redirect", domain.Scope{}, false, err.Error())
			middleware.RecordAuthAttempt("google_redirect", false)
			writeError(w, log, r, err)
			return
		}
		AuditLog(log, r, "auth.google_redirect", domain.UserScope(res.User.ID), true, "")
		middleware.RecordAuthAttempt("google_redirect", true)
		cookie.set(w, res.Tokens.RefreshToken)

		u, err := url.Parse(redirectURL)
		if err != nil || redirectURL == "" {
			writeJSON(w, http.StatusOK, tokenResponse{AccessToken: res.Tokens.AccessToken, ExpiresIn: res.Tokens.ExpiresIn})
			return
		}
		frag := url.Values{}
		frag.Set("access_token", res.Tokens.AccessToken)
		frag.Set("expires_in", strconv.FormatInt(res.Tokens.ExpiresIn, 10))
		frag.Set("user_id", res.User.ID)
		u.Fragment = frag.Encode()
		http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
	}
}
