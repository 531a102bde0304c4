package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleMe(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/obp/v5.1.0/users/current":
			_, _ = w.Write([]byte(`{"username":"alice","email":"alice@example.com"}`))
		case "/obp/v5.1.0/my/accounts":
			_, _ = w.Write([]byte(`{"accounts":[
				{"id":"acc-1","bank_id":"bank-x"},
				{"id":"acc-2","bank_id":"bank-x"},
				{"id":"acc-3","bank_id":"bank-y"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	handler := NewUserHandler(testGateway(t, upstream), zap.NewNop())

	rec := httptest.NewRecorder()
	handler.HandleMe(rec, authenticatedRequest(http.MethodGet, "/users/me"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "alice", body.Username)
	assert.Equal(t, "alice@example.com", body.Email)
	assert.Equal(t, 3, body.AccountCount)
	assert.Equal(t, 2, body.BankCount)
	assert.Contains(t, body.Links, "accounts")
	assert.Contains(t, body.Links, "banks")
}

func TestHandleMeStaleCredential(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	handler := NewUserHandler(testGateway(t, upstream), zap.NewNop())

	rec := httptest.NewRecorder()
	handler.HandleMe(rec, authenticatedRequest(http.MethodGet, "/users/me"))

	// A live local session with a rejected upstream token reports 401.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
