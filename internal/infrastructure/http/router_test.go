package http

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/auth"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/googletasks"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/label"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/project"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/session"
	"github.com/amirhosseinghanipour/pomotrack/internal/application/task"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
	infraauth "github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/auth"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence"
	"github.com/amirhosseinghanipour/pomotrack/internal/infrastructure/persistence/memory"
)

type stubGoogle struct {
	profile *ports.GoogleProfile
	tasks   []ports.GoogleTask
}

func (s *stubGoogle) VerifyIDToken(ctx context.Context, idToken string) (*ports.GoogleProfile, error) {
	if s.profile == nil {
		return nil, domerrors.ErrInvalidToken
	}
	return s.profile, nil
}

func (s *stubGoogle) UserInfo(ctx context.Context, accessToken string) (*ports.GoogleProfile, error) {
	return s.VerifyIDToken(ctx, accessToken)
}

func (s *stubGoogle) Refresh(ctx context.Context, refreshToken string) (*ports.GoogleToken, error) {
	return &ports.GoogleToken{AccessToken: "refreshed", Expiry: time.Now().Add(time.Hour)}, nil
}

func (s *stubGoogle) ListTasks(ctx context.Context, accessToken string) ([]ports.GoogleTask, error) {
	return s.tasks, nil
}

type testServer struct {
	*httptest.Server
	store  *persistence.Store
	issuer *infraauth.TokenIssuer
	google *stubGoogle
}

func newTestServer(t *testing.T, requireToken bool) *testServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	issuer := infraauth.NewTokenIssuer(key, "test", "test")
	store := persistence.NewMemoryStore()
	google := &stubGoogle{}
	log := zerolog.Nop()

	issueTokens := auth.NewIssueTokens(issuer, 60, 3600)
	linker := auth.NewGoogleLinker(store.Users, issueTokens, nil)
	refreshGoogle := auth.NewRefreshGoogleToken(store.Users, google)
	cookie := handlers.RefreshCookie{MaxAge: time.Hour}

	identity := middleware.NewIdentityResolver(issuer, requireToken)

	router := NewRouter(RouterConfig{
		Projects: handlers.NewProjectsHandler(
			project.NewCreateProject(store.Projects),
			project.NewListProjects(store.Projects),
			project.NewUpdateColor(store.Projects),
			project.NewDeleteProject(store.Projects, store.Tasks, nil),
			log,
		),
		Tasks: handlers.NewTasksHandler(
			task.NewCreateTask(store.Tasks),
			task.NewListTasks(store.Tasks),
			task.NewSetCompleted(store.Tasks),
			task.NewReorder(store.Tasks),
			task.NewMoveTask(store.Tasks),
			task.NewDeleteTask(store.Tasks),
			log,
		),
		Sessions: handlers.NewSessionsHandler(
			session.NewRecordSession(store.Sessions, nil),
			session.NewListSessions(store.Sessions, store.Users),
			session.NewQueryRange(store.Sessions, store.Users, session.NewCalendar()),
			log,
		),
		Brands:     handlers.NewLabelsHandler(domain.LabelBrand, label.NewCreateLabel(store.Labels), label.NewListLabels(store.Labels), log),
		Milestones: handlers.NewLabelsHandler(domain.LabelMilestone, label.NewCreateLabel(store.Labels), label.NewListLabels(store.Labels), log),
		Auth: handlers.NewAuthHandler(
			issueTokens,
			auth.NewRefresh(issuer, memory.NewRefreshLedger(), issueTokens),
			auth.NewGoogleSignIn(google, linker),
			auth.NewGoogleReauth(store.Users),
			refreshGoogle,
			cookie,
			identity,
			log,
		),
		Users:       handlers.NewUsersHandler(auth.NewUpsertUser(store.Users), store.Users, log),
		GoogleTasks: handlers.NewGoogleTasksHandler(googletasks.NewListTasks(store.Users, google, refreshGoogle), log),
		Health:      handlers.NewHealthHandler(nil),
		Identity:    identity,
		Log:         log,
		APIVersion:  "1",
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store, issuer: issuer, google: google}
}

type call struct {
	method  string
	path    string
	body    interface{}
	headers map[string]string
	cookies []*http.Cookie
}

func (s *testServer) do(t *testing.T, c call) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(c.method, s.URL+c.path, body)
	require.NoError(t, err)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func asUser(id string) map[string]string    { return map[string]string{"user-id": id} }
func asSession(id string) map[string]string { return map[string]string{"session-id": id} }

func decode(t *testing.T, b []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(b, v), string(b))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := s.do(t, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestIdentityRequired(t *testing.T) {
	s := newTestServer(t, false)
	for _, path := range []string{"/api/projects", "/api/tasks", "/api/brands", "/api/sessions"} {
		resp, body := s.do(t, call{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Contains(t, string(body), `"code":"unauthorized"`)
	}

	resp, _ := s.do(t, call{method: http.MethodGet, path: "/api/sessions", headers: asSession("browser")})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "sessions need a user")

	resp, _ = s.do(t, call{method: http.MethodGet, path: "/api/projects", headers: asSession("browser")})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-API-Version"))
}

func TestProjectAndTaskFlow(t *testing.T) {
	s := newTestServer(t, false)
	user := asUser("alice")

	resp, body := s.do(t, call{method: http.MethodPost, path: "/api/projects", headers: user, body: map[string]string{"name": "Thesis"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p struct {
		ID          string `json:"id"`
		HeaderColor string `json:"headerColor"`
	}
	decode(t, body, &p)
	assert.Equal(t, "blue", p.HeaderColor)

	var orders []int
	var taskIDs []string
	for _, title := range []string{"first", "second"} {
		resp, body = s.do(t, call{method: http.MethodPost, path: "/api/tasks", headers: user, body: map[string]string{"title": title, "projectId": p.ID}})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		var tk struct {
			ID           string  `json:"id"`
			Order        int     `json:"order"`
			ParentTaskID *string `json:"parentTaskId"`
		}
		decode(t, body, &tk)
		assert.Nil(t, tk.ParentTaskID)
		orders = append(orders, tk.Order)
		taskIDs = append(taskIDs, tk.ID)
	}
	assert.Equal(t, []int{0, 1}, orders)

	resp, body = s.do(t, call{method: http.MethodPost, path: "/api/tasks", headers: user, body: map[string]string{"title": "sub", "projectId": p.ID, "parentTaskId": taskIDs[0]}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.do(t, call{method: http.MethodPatch, path: "/api/tasks", headers: user, body: map[string]interface{}{"id": taskIDs[1], "completed": true}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"completed":true`)

	resp, body = s.do(t, call{method: http.MethodPatch, path: "/api/tasks/reorder", headers: user, body: map[string]interface{}{
		"updates": []map[string]interface{}{{"id": taskIDs[0], "order": 4}, {"id": domain.NewID(), "order": 1}},
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var bulk struct {
		OK       bool  `json:"ok"`
		Matched  int64 `json:"matched"`
		Modified int64 `json:"modified"`
	}
	decode(t, body, &bulk)
	assert.Equal(t, int64(1), bulk.Matched)
	assert.Equal(t, int64(1), bulk.Modified)

	resp, body = s.do(t, call{method: http.MethodGet, path: "/api/tasks?projectId=" + p.ID, headers: asSession("intruder")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, body = s.do(t, call{method: http.MethodDelete, path: "/api/projects", headers: user, body: map[string]string{"id": p.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var del struct {
		OK           bool  `json:"ok"`
		TasksDeleted int64 `json:"tasksDeleted"`
	}
	decode(t, body, &del)
	assert.True(t, del.OK)
	assert.Equal(t, int64(3), del.TasksDeleted)

	resp, _ = s.do(t, call{method: http.MethodDelete, path: "/api/projects", headers: user, body: map[string]string{"id": p.ID}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t, false)
	user := asUser("alice")

	resp, body := s.do(t, call{method: http.MethodPost, path: "/api/tasks", headers: user, body: map[string]string{"title": "x", "projectId": "nope"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e struct {
		Code    string `json:"code"`
		Details []struct {
			Path string `json:"path"`
		} `json:"details"`
	}
	decode(t, body, &e)
	assert.Equal(t, "validation_error", e.Code)
	require.NotEmpty(t, e.Details)
	assert.Equal(t, "projectId", e.Details[0].Path)

	resp, _ = s.do(t, call{method: http.MethodGet, path: "/api/sessions/week/abc", headers: user})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, call{method: http.MethodGet, path: "/api/sessions/month/2024/13", headers: user})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, call{method: http.MethodPatch, path: "/api/projects", headers: user, body: map[string]string{"id": domain.NewID(), "headerColor": "red"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionsAndLabels(t *testing.T) {
	s := newTestServer(t, false)
	user := asUser("alice")

	resp, body := s.do(t, call{method: http.MethodPost, path: "/api/sessions", headers: user, body: map[string]interface{}{
		"focusTime": 1500,
		"breakTime": 300,
		"tasks":     []map[string]interface{}{{"completed": true, "brand": map[string]string{"title": "Acme"}}},
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"user":"alice"`)

	resp, body = s.do(t, call{method: http.MethodGet, path: "/api/sessions", headers: user})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	decode(t, body, &list)
	assert.Len(t, list, 1)

	year := time.Now().Year()
	resp, body = s.do(t, call{method: http.MethodGet, path: "/api/sessions/year/" + strconv.Itoa(year), headers: user})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var ranged struct {
		Sessions    []map[string]interface{} `json:"sessions"`
		StartOfWeek *time.Time               `json:"startOfWeek"`
	}
	decode(t, body, &ranged)
	assert.Len(t, ranged.Sessions, 1)
	assert.Nil(t, ranged.StartOfWeek)

	resp, body = s.do(t, call{method: http.MethodGet, path: "/api/sessions/week/1", headers: user})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	decode(t, body, &ranged)
	require.NotNil(t, ranged.StartOfWeek)
	assert.Equal(t, time.Monday, ranged.StartOfWeek.In(time.Local).Weekday())

	resp, _ = s.do(t, call{method: http.MethodPost, path: "/api/brands", headers: asSession("b"), body: map[string]string{"name": "Acme"}})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, body = s.do(t, call{method: http.MethodGet, path: "/api/brands", headers: asSession("b")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"name":"Acme"`)
	resp, body = s.do(t, call{method: http.MethodGet, path: "/api/milestones", headers: asSession("b")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func refreshCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	return nil
}

func TestAuthCookieRotation(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, call{method: http.MethodPost, path: "/api/auth", body: map[string]string{"userId": "alice"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var tok struct {
		AccessToken string `json:"accessToken"`
	}
	decode(t, body, &tok)
	sub, err := s.issuer.ValidateAccessToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	first := refreshCookie(resp)
	require.NotNil(t, first)
	assert.True(t, first.HttpOnly)
	assert.Equal(t, "/api/auth", first.Path)

	resp, body = s.do(t, call{method: http.MethodPut, path: "/api/auth", cookies: []*http.Cookie{first}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	second := refreshCookie(resp)
	require.NotNil(t, second)
	assert.NotEqual(t, first.Value, second.Value)

	resp, body = s.do(t, call{method: http.MethodPut, path: "/api/auth", cookies: []*http.Cookie{first}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "refresh_token_reused")

	resp, _ = s.do(t, call{method: http.MethodPut, path: "/api/auth"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, call{method: http.MethodDelete, path: "/api/auth"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	cleared := refreshCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestRequireTokenMode(t *testing.T) {
	s := newTestServer(t, true)
	access, err := s.issuer.IssueAccessToken("alice", 60)
	require.NoError(t, err)

	resp, _ := s.do(t, call{method: http.MethodGet, path: "/api/projects", headers: asUser("alice")})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, call{method: http.MethodGet, path: "/api/projects", headers: map[string]string{"user-id": "mallory", "Authorization": "Bearer " + access}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, call{method: http.MethodGet, path: "/api/projects", headers: map[string]string{"user-id": "alice", "Authorization": "Bearer " + access}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, call{method: http.MethodGet, path: "/api/projects", headers: asSession("browser")})
	assert.Equal(t, http.StatusOK, resp.StatusCode, "anonymous sessions carry no token")
}

func TestRequireTokenMode_IssueNeedsMatchingBearer(t *testing.T) {
	s := newTestServer(t, true)
	issue := map[string]string{"userId": "victim"}

	resp, body := s.do(t, call{method: http.MethodPost, path: "/api/auth", body: issue})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(body))
	assert.Nil(t, refreshCookie(resp))

	other, err := s.issuer.IssueAccessToken("mallory", 60)
	require.NoError(t, err)
	resp, _ = s.do(t, call{method: http.MethodPost, path: "/api/auth", body: issue, headers: map[string]string{"Authorization": "Bearer " + other}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	own, err := s.issuer.IssueAccessToken("victim", 60)
	require.NoError(t, err)
	resp, body = s.do(t, call{method: http.MethodPost, path: "/api/auth", body: issue, headers: map[string]string{"Authorization": "Bearer " + own}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var tok struct {
		AccessToken string `json:"accessToken"`
	}
	decode(t, body, &tok)
	sub, err := s.issuer.ValidateAccessToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "victim", sub)
}

func TestGoogleSignInAndTasks(t *testing.T) {
	s := newTestServer(t, false)
	s.google.profile = &ports.GoogleProfile{Subject: "g-1", Email: "ada@example.com", Name: "Ada"}
	s.google.tasks = []ports.GoogleTask{{ID: "t1", Title: "Buy milk", Status: "needsAction"}}

	resp, body := s.do(t, call{method: http.MethodPost, path: "/api/auth/google", body: map[string]interface{}{
		"credential":   "h.p.s",
		"accessToken":  "ya29.a",
		"refreshToken": "1//r",
		"expiresIn":    3600,
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var signIn struct {
		AccessToken string `json:"accessToken"`
		Created     bool   `json:"created"`
		User        struct {
			ID              string `json:"id"`
			GoogleConnected bool   `json:"googleConnected"`
		} `json:"user"`
	}
	decode(t, body, &signIn)
	assert.True(t, signIn.Created)
	assert.True(t, signIn.User.GoogleConnected)
	assert.NotContains(t, string(body), "ya29.a")
	require.NotNil(t, refreshCookie(resp))

	user := asUser(signIn.User.ID)
	resp, body = s.do(t, call{method: http.MethodGet, path: "/api/google-tasks", headers: user})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "Buy milk")

	resp, body = s.do(t, call{method: http.MethodPost, path: "/api/auth/refresh-token", headers: user})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"accessToken":"refreshed"`)

	resp, _ = s.do(t, call{method: http.MethodGet, path: "/api/users/me", headers: user})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, call{method: http.MethodGet, path: "/api/google-tasks", headers: asSession("browser")})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	s.google.profile = nil
	resp, _ = s.do(t, call{method: http.MethodPost, path: "/api/auth/google", body: map[string]string{"credential": "h.p.s"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsersUpsert(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := s.do(t, call{method: http.MethodPost, path: "/api/users", body: map[string]string{"name": "Ada", "email": "ada@example.com"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var u struct {
		ID string `json:"id"`
	}
	decode(t, body, &u)

	resp, body = s.do(t, call{method: http.MethodPost, path: "/api/users", body: map[string]string{"name": "Ada L.", "email": "ADA@example.com"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), u.ID)
	assert.Contains(t, string(body), "Ada L.")

	resp, _ = s.do(t, call{method: http.MethodPost, path: "/api/users", body: map[string]string{"name": "x", "email": "not-an-email"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
