package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asaikali/money-mate/obp"
	"github.com/asaikali/money-mate/services"
	"github.com/asaikali/money-mate/session"
)

// fakeOBP serves the DirectLogin endpoint: alice/secret is the only
// valid pair and yields the token U1.
func fakeOBP(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/my/logins/direct" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		header := r.Header.Get("DirectLogin")
		if strings.Contains(header, "username=alice") && strings.Contains(header, "password=secret") {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"token":"U1"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid login credentials"}`))
	}))
}

func newSessionFixture(t *testing.T, upstream *httptest.Server) (*SessionHandler, *session.MemoryStore) {
	t.Helper()
	gateway := obp.NewClient(obp.Config{
		BaseURL:     upstream.URL,
		APIVersion:  "v5.1.0",
		ConsumerKey: "ck",
	}, zap.NewNop())
	store := session.NewMemoryStore()
	svc := services.NewSessionService(gateway, store, zap.NewNop())
	return NewSessionHandler(svc, zap.NewNop()), store
}

func TestHandleCreateSession(t *testing.T) {
	upstream := fakeOBP(t)
	defer upstream.Close()
	handler, store := newSessionFixture(t, upstream)

	req := httptest.NewRequest(http.MethodPost, "/session",
		strings.NewReader(`{"username":"alice","password":"secret"}`))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "no-store, private", rec.Header().Get("Cache-Control"))

	var body SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Bearer", body.TokenType)
	assert.True(t, strings.HasPrefix(body.AccessToken, "MMAT-"))
	assert.Contains(t, body.Links, "me")
	assert.Contains(t, body.Links, "about")

	// The session carries the upstream token, not the password.
	principal, ok := store.Find(body.AccessToken)
	require.True(t, ok)
	assert.Equal(t, "alice", principal.Subject)
	assert.Equal(t, "U1", principal.ObpToken)
}

func TestHandleCreateSessionWrongPassword(t *testing.T) {
	upstream := fakeOBP(t)
	defer upstream.Close()
	handler, store := newSessionFixture(t, upstream)

	req := httptest.NewRequest(http.MethodPost, "/session",
		strings.NewReader(`{"username":"alice","password":"nope"}`))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Equal(t, 0, store.Len())
}

func TestHandleCreateSessionBadRequest(t *testing.T) {
	upstream := fakeOBP(t)
	defer upstream.Close()
	handler, _ := newSessionFixture(t, upstream)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		handler.HandleCreate(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/session",
			strings.NewReader(`{"username":"alice"}`))
		rec := httptest.NewRecorder()
		handler.HandleCreate(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Password is required")
	})
}

func TestHandleCreateSessionUpstreamDown(t *testing.T) {
	upstream := fakeOBP(t)
	upstream.Close() // refuse connections
	handler, _ := newSessionFixture(t, upstream)

	req := httptest.NewRequest(http.MethodPost, "/session",
		strings.NewReader(`{"username":"alice","password":"secret"}`))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleDeleteSession(t *testing.T) {
	upstream := fakeOBP(t)
	defer upstream.Close()
	handler, store := newSessionFixture(t, upstream)

	token := store.Create("alice", "U1")

	req := httptest.NewRequest(http.MethodDelete, "/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := store.Find(token)
	assert.False(t, ok)

	// Idempotent: deleting the same session again still succeeds.
	rec = httptest.NewRecorder()
	handler.HandleDelete(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleGetSession(t *testing.T) {
	upstream := fakeOBP(t)
	defer upstream.Close()
	handler, _ := newSessionFixture(t, upstream)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body SessionStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Contains(t, body.Links, "self")
}
