package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sprig-core/internal/api"
	"github.com/mcoot/sprig-core/internal/api/apierr"
	"github.com/mcoot/sprig-core/internal/api/response"
	"github.com/mcoot/sprig-core/internal/factory"
	"github.com/mcoot/sprig-core/internal/middleware"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/testutil"
	"github.com/mcoot/sprig-core/internal/transport/cookie"
)

// testServer wraps the router over a test app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:     testutil.NopLogger(),
		Identity:   app.Identity,
		Sessions:   app.Sessions,
		LoginCodes: app.LoginCodes,
		Games:      app.Games,
		Snapshots:  app.Snapshots,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: token})
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// sessionCookie returns the sprigSession cookie set by the response, if any
func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookie.Name {
			return c
		}
	}
	return nil
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

// loginEmail logs in by email and returns the session token
func (ts *testServer) loginEmail(t *testing.T, email string) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/session/email", map[string]string{"email": email, "username": "alice"}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	c := sessionCookie(rr)
	require.NotNil(t, c)
	return c.Value
}

// escalate completes the login code exchange for the token's session
func (ts *testServer) escalate(t *testing.T, token string) {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/session/code/request", nil, token)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	code := ts.app.MockMailer.LastCode()
	rr = ts.request(http.MethodPost, "/api/v1/session/code", map[string]string{"code": code}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestLoginEmailCreatesUserAndPartialSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/session/email", map[string]string{"email": "a@example.com", "username": "alice"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.SessionResponse](t, rr)
	assert.Equal(t, "partial", resp.Session.Tier)
	assert.False(t, resp.Session.Full)
	assert.Equal(t, "a@example.com", resp.User.Email)
	require.NotNil(t, resp.User.Username)
	assert.Equal(t, "alice", *resp.User.Username)

	c := sessionCookie(rr)
	require.NotNil(t, c)
	assert.Equal(t, resp.Session.ID, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestLoginEmailReusesExistingUser(t *testing.T) {
	ts := newTestServer(t)

	first := decode[response.SessionResponse](t,
		ts.request(http.MethodPost, "/api/v1/session/email", map[string]string{"email": "a@example.com"}, ""))
	second := decode[response.SessionResponse](t,
		ts.request(http.MethodPost, "/api/v1/session/email", map[string]string{"email": "a@example.com"}, ""))

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.NotEqual(t, first.Session.ID, second.Session.ID)
}

func TestLoginEmailRequiresEmail(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/session/email", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestGetSessionRequiresCookie(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/session", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/session", nil, "unknown")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCodeLoginUpgradesSameSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")

	ts.escalate(t, token)

	rr := ts.request(http.MethodGet, "/api/v1/session", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[response.SessionResponse](t, rr)
	assert.Equal(t, token, resp.Session.ID)
	assert.Equal(t, "full", resp.Session.Tier)
}

func TestCodeLoginRejectsWrongCode(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")

	ts.app.MockRandom.QueueString("111111")
	rr := ts.request(http.MethodPost, "/api/v1/session/code/request", nil, token)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/session/code", map[string]string{"code": "222222"}, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidLoginCode, errorCode(t, rr))
}

func TestCodeLoginIsSingleUse(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")
	ts.escalate(t, token)

	code := ts.app.MockMailer.LastCode()
	rr := ts.request(http.MethodPost, "/api/v1/session/code", map[string]string{"code": code}, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPartialSessionCannotEditProtectedGame(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{"name": "g", "code": "A"}, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	game := decode[response.Game](t, rr)
	assert.Nil(t, game.TutorialName)
	assert.Nil(t, game.TutorialIndex)

	// Owners can read under a partial session
	rr = ts.request(http.MethodGet, "/api/v1/games/"+game.ID, nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]string{"code": "B"}, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeForbidden, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/snapshots", nil, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+game.ID, nil, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPartialSessionCanEditUnprotectedGame(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{"unprotected": true}, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	game := decode[response.Game](t, rr)
	assert.NotEmpty(t, game.Name)

	rr = ts.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]string{"code": "B"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "B", decode[response.Game](t, rr).Code)
}

func TestOtherUserCannotAccessGame(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.loginEmail(t, "a@example.com")
	other := ts.loginEmail(t, "b@example.com")
	ts.escalate(t, other)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{"unprotected": true}, owner)
	game := decode[response.Game](t, rr)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+game.ID, nil, other)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]string{"code": "X"}, other)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetMissingGame(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")

	rr := ts.request(http.MethodGet, "/api/v1/games/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, errorCode(t, rr))
}

func TestGetMissingSnapshot(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/snapshots/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSnapshotNotFound, errorCode(t, rr))
}

// A user creates a game with code "A", snapshots it, then edits the code
// to "B". The public snapshot keeps "A" with the live name and owner.
func TestSnapshotScenario(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")
	ts.escalate(t, token)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{"name": "first", "code": "A"}, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	game := decode[response.Game](t, rr)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/snapshots", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	snap := decode[response.Snapshot](t, rr)
	assert.Equal(t, "A", snap.Code)
	assert.Equal(t, game.ID, snap.GameID)

	rr = ts.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]string{"name": "renamed", "code": "B"}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/snapshots/"+snap.ID, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	data := decode[response.SnapshotData](t, rr)
	assert.Equal(t, "A", data.Code)
	assert.Equal(t, "renamed", data.Name)
	require.NotNil(t, data.OwnerName)
	assert.Equal(t, "alice", *data.OwnerName)

	// After deletion the frozen name is served
	rr = ts.request(http.MethodDelete, "/api/v1/games/"+game.ID, nil, token)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/snapshots/"+snap.ID, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	data = decode[response.SnapshotData](t, rr)
	assert.Equal(t, "first", data.Name)
	assert.Equal(t, "A", data.Code)
}

func TestOrphanSessionCookieIsUnauthorized(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")

	resp := decode[response.SessionResponse](t, ts.request(http.MethodGet, "/api/v1/session", nil, token))
	require.NoError(t, ts.app.Storage.DeleteUser(t.Context(), model.UserID(resp.User.ID)))

	rr := ts.request(http.MethodGet, "/api/v1/session", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	_, err := ts.app.Storage.GetSession(t.Context(), model.SessionID(token))
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestCreateGameWithEmptyBodyUsesDefaults(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")

	rr := ts.request(http.MethodPost, "/api/v1/games", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	game := decode[response.Game](t, rr)
	assert.Equal(t, "bouncy-badger", game.Name)
	assert.Empty(t, game.Code)
	assert.Equal(t, "/api/v1/games/"+game.ID, rr.Header().Get("Location"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestMalformedBodyIsInvalidRequest(t *testing.T) {
	ts := newTestServer(t)
	token := ts.loginEmail(t, "a@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", bytes.NewBufferString("{not json"))
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: token})
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestRouterAssignsRequestID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}
