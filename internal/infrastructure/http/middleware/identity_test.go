package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

// staticIssuer accepts exactly one access token.
type staticIssuer struct {
	ports.TokenIssuer
	token, subject string
}

func (s staticIssuer) ValidateAccessToken(token string) (string, error) {
	if token != s.token {
		return "", errors.New("bad token")
	}
	return s.subject, nil
}

func scopeEcho(t *testing.T, got *domain.Scope) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = ScopeFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdentityResolver_Handler(t *testing.T) {
	m := NewIdentityResolver(nil, false)

	tests := []struct {
		name    string
		headers map[string]string
		status  int
		want    domain.Scope
	}{
		{"user wins over session", map[string]string{UserIDHeader: "u1", SessionIDHeader: "s1"}, http.StatusOK, domain.UserScope("u1")},
		{"session only", map[string]string{SessionIDHeader: "s1"}, http.StatusOK, domain.AnonymousScope("s1")},
		{"blank user falls back to session", map[string]string{UserIDHeader: "  ", SessionIDHeader: "s1"}, http.StatusOK, domain.AnonymousScope("s1")},
		{"none", nil, http.StatusUnauthorized, domain.Scope{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Scope
			rec := serve(m.Handler(scopeEcho(t, &got)), tt.headers)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentityResolver_RequireUser(t *testing.T) {
	m := NewIdentityResolver(nil, false)
	var got domain.Scope

	rec := serve(m.RequireUser(scopeEcho(t, &got)), map[string]string{SessionIDHeader: "s1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "user id required")

	rec = serve(m.RequireUser(scopeEcho(t, &got)), map[string]string{UserIDHeader: "u1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.UserScope("u1"), got)
}

func TestIdentityResolver_RequireToken(t *testing.T) {
	m := NewIdentityResolver(staticIssuer{token: "good", subject: "u1"}, true)

	_, ok := m.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "u1")
	_, ok = m.Resolve(req)
	assert.False(t, ok, "user-id without a token")

	req.Header.Set("Authorization", "Bearer good")
	scope, ok := m.Resolve(req)
	assert.True(t, ok)
	assert.Equal(t, domain.UserScope("u1"), scope)

	req.Header.Set(UserIDHeader, "u2")
	_, ok = m.Resolve(req)
	assert.False(t, ok, "token for another user")

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	anon.Header.Set(SessionIDHeader, "s1")
	scope, ok = m.Resolve(anon)
	assert.True(t, ok)
	assert.Equal(t, domain.AnonymousScope("s1"), scope)
}

func TestIdentityResolver_MayIssueFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	assert.True(t, NewIdentityResolver(nil, false).MayIssueFor(req, "u1"))

	var unset *IdentityResolver
	assert.True(t, unset.MayIssueFor(req, "u1"))

	m := NewIdentityResolver(staticIssuer{token: "good", subject: "u1"}, true)
	assert.False(t, m.MayIssueFor(req, "u1"))

	req.Header.Set("Authorization", "Bearer good")
	assert.True(t, m.MayIssueFor(req, "u1"))
	assert.False(t, m.MayIssueFor(req, "u2"))
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := CORS([]string{"http://app.test"}, nil, nil)(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "http://app.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), SessionIDHeader)

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPIVersion(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := serve(APIVersion("1")(next), nil)
	assert.Equal(t, "1", rec.Header().Get("X-API-Version"))

	rec = serve(APIVersion("")(next), nil)
	assert.Empty(t, rec.Header().Get("X-API-Version"))
}
