package middleware

import (
	"net/http"
	"strings"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

const (
	UserIDHeader    = "user-id"
	SessionIDHeader = "session-id"
)

// IdentityResolver derives the caller scope from the user-id / session-id headers.
// With requireToken set, a user-id must be backed by a bearer access token for the same user.
type IdentityResolver struct {
	issuer       ports.TokenIssuer
	requireToken bool
}

func NewIdentityResolver(issuer ports.TokenIssuer, requireToken bool) *IdentityResolver {
	return &IdentityResolver{issuer: issuer, requireToken: requireToken}
}

// Resolve returns the scope for r; ok is false when the request carries no usable identity.
func (m *IdentityResolver) Resolve(r *http.Request) (domain.Scope, bool) {
	scope, ok := domain.ResolveScope(r.Header.Get(UserIDHeader), r.Header.Get(SessionIDHeader))
	if !ok {
		return domain.Scope{}, false
	}
	if userID, isUser := scope.UserID(); isUser && m.requireToken {
		if m.bearerSubject(r) != userID {
			return domain.Scope{}, false
		}
	}
	return scope, true
}

// MayIssueFor reports whether r may mint tokens for userID. With requireToken set the caller
// must already hold an access token for that user; first sign-in then goes through Google.
func (m *IdentityResolver) MayIssueFor(r *http.Request, userID string) bool {
	if m == nil || !m.requireToken {
		return true
	}
	return m.bearerSubject(r) == userID
}

func (m *IdentityResolver) bearerSubject(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if m.issuer == nil || !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	sub, err := m.issuer.ValidateAccessToken(strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		return ""
	}
	return sub
}

// Handler rejects requests without an identity with 401.
func (m *IdentityResolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, ok := m.Resolve(r)
		if !ok {
			writeErr(w, http.StatusUnauthorized, "unauthorized", "missing or invalid identity")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
	})
}

// RequireUser is Handler restricted to registered users; anonymous sessions get 401.
func (m *IdentityResolver) RequireUser(next http.Handler) http.Handler {
	return m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ScopeFromContext(r.Context()).UserID(); !ok {
			writeErr(w, http.StatusUnauthorized, "unauthorized", "user id required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}
