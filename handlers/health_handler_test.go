package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asaikali/money-mate/obp"
)

func newHealthFixture(t *testing.T, upstream *httptest.Server) *HealthHandler {
	t.Helper()
	cfg := obp.Config{BaseURL: upstream.URL, APIVersion: "v5.1.0", ConsumerKey: "ck"}
	auth := obp.NewServiceAuthenticator(obp.NewClient(cfg, zap.NewNop()), "svc", "pw", zap.NewNop())
	return NewHealthHandler(obp.NewServiceClient(cfg, auth, zap.NewNop()), zap.NewNop())
}

func TestHandleHealthAlwaysOK(t *testing.T) {
	handler := NewHealthHandler(nil, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
}

func TestHandleReadiness(t *testing.T) {
	t.Run("upstream healthy", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/my/logins/direct":
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"token":"svc-token"}`))
			case "/obp/v5.1.0/users/current":
				_, _ = w.Write([]byte(`{"username":"money-mate-app"}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer upstream.Close()

		handler := newHealthFixture(t, upstream)
		rec := httptest.NewRecorder()
		handler.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "healthy", body.Checks["obp"])
	})

	t.Run("upstream down", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		upstream.Close()

		handler := newHealthFixture(t, upstream)
		rec := httptest.NewRecorder()
		handler.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "unhealthy", body.Checks["obp"])
	})

	t.Run("no service credentials configured", func(t *testing.T) {
		handler := NewHealthHandler(nil, zap.NewNop())
		rec := httptest.NewRecorder()
		handler.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
