package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/auth"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
)

const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/api/auth"
)

// RefreshCookie configures the HTTP-only cookie carrying the refresh token.
type RefreshCookie struct {
	Secure bool
	MaxAge time.Duration
}

func (c RefreshCookie) set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(c.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c RefreshCookie) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type tokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int64     `json:"expiresIn"`
	User        *userJSON `json:"user,omitempty"`
	Created     bool      `json:"created,omitempty"`
}

// AuthHandler issues local tokens and handles the Google credential exchanges.
type AuthHandler struct {
	issue         *auth.IssueTokens
	refresh       *auth.Refresh
	googleSignIn  *auth.GoogleSignIn
	googleReauth  *auth.GoogleReauth
	refreshGoogle *auth.RefreshGoogleToken
	cookie        RefreshCookie
	identity      *middleware.IdentityResolver
	validate      *validator.Validate
	log           zerolog.Logger
}

func NewAuthHandler(issue *auth.IssueTokens, refresh *auth.Refresh, googleSignIn *auth.GoogleSignIn, googleReauth *auth.GoogleReauth, refreshGoogle *auth.RefreshGoogleToken, cookie RefreshCookie, identity *middleware.IdentityResolver, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		issue:         issue,
		refresh:       refresh,
		googleSignIn:  googleSignIn,
		googleReauth:  googleReauth,
		refreshGoogle: refreshGoogle,
		cookie:        cookie,
		identity:      identity,
		validate:      newValidator(),
		log:           log,
	}
}

// Issue handles POST /api/auth. In require-token mode the caller must hold an access token for userId.
func (h *AuthHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId" validate:"required,max=200"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if !h.identity.MayIssueFor(r, body.UserID) {
		AuditLog(h.log, r, "auth.issue", domain.UserScope(body.UserID), false, "bearer token required")
		middleware.RecordAuthAttempt("issue", false)
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "bearer token for this user required")
		return
	}
	pair, err := h.issue.Execute(body.UserID)
	if err != nil {
		AuditLog(h.log, r, "auth.issue", domain.UserScope(body.UserID), false, err.Error())
		middleware.RecordAuthAttempt("issue", false)
		writeError(w, h.log, r, err)
		return
	}
	AuditLog(h.log, r, "auth.issue", domain.UserScope(body.UserID), true, "")
	middleware.RecordAuthAttempt("issue", true)
	h.cookie.set(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, ExpiresIn: pair.ExpiresIn})
}

// Rotate handles PUT /api/auth: the cookie's refresh token is exchanged for a new pair.
func (h *AuthHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(refreshCookieName); err == nil {
		token = c.Value
	}
	pair, err := h.refresh.Execute(r.Context(), auth.RefreshInput{RefreshToken: token})
	if err != nil {
		AuditLog(h.log, r, "auth.refresh", domain.Scope{}, false, err.Error())
		middleware.RecordAuthAttempt("refresh", false)
		h.cookie.clear(w)
		writeError(w, h.log, r, err)
		return
	}
	AuditLog(h.log, r, "auth.refresh", domain.Scope{}, true, "")
	middleware.RecordAuthAttempt("refresh", true)
	h.cookie.set(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, ExpiresIn: pair.ExpiresIn})
}

// Logout handles DELETE /api/auth.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookie.clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// Google handles POST /api/auth/google.
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Credential   string `json:"credential" validate:"required,max=8192"`
		AccessToken  string `json:"accessToken" validate:"max=4096"`
		RefreshToken string `json:"refreshToken" validate:"max=4096"`
		ExpiresIn    int64  `json:"expiresIn" validate:"min=0"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	res, err := h.googleSignIn.Execute(r.Context(), auth.GoogleSignInInput{
		Credential:   body.Credential,
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		ExpiresIn:    body.ExpiresIn,
	})
	if err != nil {
		AuditLog(h.log, r, "auth.google", domain.Scope{}, false, err.Error())
		middleware.RecordAuthAttempt("google", false)
		writeError(w, h.log, r, err)
		return
	}
	h.completeSignIn(w, r, "auth.google", res)
}

func (h *AuthHandler) completeSignIn(w http.ResponseWriter, r *http.Request, event string, res *auth.GoogleSignInResult) {
	AuditLog(h.log, r, event, domain.UserScope(res.User.ID), true, "")
	middleware.RecordAuthAttempt("google", true)
	h.cookie.set(w, res.Tokens.RefreshToken)
	user := toUserJSON(res.User)
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: res.Tokens.AccessToken,
		ExpiresIn:   res.Tokens.ExpiresIn,
		User:        &user,
		Created:     res.Created,
	})
}

// GoogleReauth handles POST /api/auth/google-reauth.
func (h *AuthHandler) GoogleReauth(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	var body struct {
		AccessToken  string `json:"accessToken" validate:"required,max=4096"`
		RefreshToken string `json:"refreshToken" validate:"max=4096"`
		ExpiresIn    int64  `json:"expiresIn" validate:"min=0"`
	}
	if err := decodeBody(r, h.validate, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	user, err := h.googleReauth.Execute(r.Context(), auth.GoogleReauthInput{
		Scope:        scope,
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		ExpiresIn:    body.ExpiresIn,
	})
	if err != nil {
		AuditLog(h.log, r, "auth.google_reauth", scope, false, err.Error())
		writeError(w, h.log, r, err)
		return
	}
	AuditLog(h.log, r, "auth.google_reauth", scope, true, "")
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "user": toUserJSON(user)})
}

// RefreshGoogleToken handles POST /api/auth/refresh-token.
func (h *AuthHandler) RefreshGoogleToken(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	grant, err := h.refreshGoogle.Execute(r.Context(), scope)
	if err != nil {
		AuditLog(h.log, r, "auth.google_refresh", scope, false, err.Error())
		writeError(w, h.log, r, err)
		return
	}
	AuditLog(h.log, r, "auth.google_refresh", scope, true, "")
	out := map[string]interface{}{"accessToken": grant.AccessToken}
	if grant.ExpiresAt != nil {
		out["expiresAt"] = grant.ExpiresAt
	}
	writeJSON(w, http.StatusOK, out)
}
