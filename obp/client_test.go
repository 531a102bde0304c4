package obp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, upstream *httptest.Server) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:     upstream.URL,
		APIVersion:  "v5.1.0",
		ConsumerKey: "test-consumer-key",
	}, zap.NewNop())
}

func TestLoginSendsDirectLoginHeader(t *testing.T) {
	var gotHeader, gotPath, gotMethod string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("DirectLogin")
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"upstream-token-1"}`))
	}))
	defer upstream.Close()

	client := testClient(t, upstream)
	token, err := client.Login(context.Background(), "alice", "secret")

	require.NoError(t, err)
	assert.Equal(t, "upstream-token-1", token)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/my/logins/direct", gotPath)
	assert.Equal(t, "username=alice, password=secret, consumer_key=test-consumer-key", gotHeader)
}

func TestLoginRejectedCredentials(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusBadRequest} {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"Invalid login credentials"}`))
		}))

		client := testClient(t, upstream)
		token, err := client.Login(context.Background(), "alice", "wrong")

		assert.Empty(t, token)
		assert.True(t, errors.Is(err, ErrAuthRejected), "status %d should classify as rejected", status)
		assert.False(t, errors.Is(err, ErrUnavailable))

		upstream.Close()
	}
}

func TestLoginUpstreamFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		_, err := testClient(t, upstream).Login(context.Background(), "alice", "secret")
		assert.True(t, errors.Is(err, ErrUnavailable))
	})

	t.Run("malformed body", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not-json`))
		}))
		defer upstream.Close()

		_, err := testClient(t, upstream).Login(context.Background(), "alice", "secret")
		assert.True(t, errors.Is(err, ErrUnavailable))
	})

	t.Run("empty token in success body", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"token":""}`))
		}))
		defer upstream.Close()

		_, err := testClient(t, upstream).Login(context.Background(), "alice", "secret")
		assert.True(t, errors.Is(err, ErrAuthRejected))
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		upstream.Close() // refuse connections

		_, err := testClient(t, upstream).Login(context.Background(), "alice", "secret")
		assert.True(t, errors.Is(err, ErrUnavailable))
	})
}

func TestAuthenticatedGetsAttachTokenHeader(t *testing.T) {
	var gotHeader, gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("DirectLogin")
		gotPath = r.URL.Path
		switch r.URL.Path {
		case "/obp/v5.1.0/users/current":
			_, _ = w.Write([]byte(`{"username":"alice","email":"alice@example.com"}`))
		case "/obp/v5.1.0/my/accounts":
			_, _ = w.Write([]byte(`{"accounts":[{"id":"acc-1","bank_id":"bank-x"}]}`))
		case "/obp/v5.1.0/banks":
			_, _ = w.Write([]byte(`{"banks":[{"id":"bank-x","short_name":"X Bank"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	client := testClient(t, upstream)
	ctx := context.Background()

	user, err := client.CurrentUser(ctx, "upstream-token-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "token=upstream-token-1", gotHeader)
	assert.Equal(t, "/obp/v5.1.0/users/current", gotPath)

	accounts, err := client.Accounts(ctx, "upstream-token-1")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "acc-1", accounts[0].ID)

	banks, err := client.Banks(ctx, "upstream-token-1")
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, "X Bank", banks[0].ShortName)
}

func TestGetRejectedCredential(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	_, err := testClient(t, upstream).CurrentUser(context.Background(), "stale-token")
	assert.True(t, errors.Is(err, ErrAuthRejected))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "current_user", apiErr.Op)
}

func TestAccountDetailsAndTransactionsPaths(t *testing.T) {
	var paths []string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		switch {
		case len(paths) == 1:
			_, _ = w.Write([]byte(`{"id":"acc 1","balance":{"currency":"EUR","amount":"120.50"}}`))
		default:
			_, _ = w.Write([]byte(`{"transactions":[{"id":"txn-1","details":{"description":"coffee","posted":"2026-01-02T03:04:05Z","value":{"currency":"EUR","amount":"-3.20"},"new_balance":{"currency":"EUR","amount":"117.30"}}}]}`))
		}
	}))
	defer upstream.Close()

	client := testClient(t, upstream)
	ctx := context.Background()

	details, err := client.AccountDetails(ctx, "tok", "bank/x", "acc 1")
	require.NoError(t, err)
	require.NotNil(t, details.Balance)
	assert.Equal(t, "120.50", details.Balance.Amount)

	txns, err := client.Transactions(ctx, "tok", "bank/x", "acc 1")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "coffee", txns[0].Details.Description)
	require.NotNil(t, txns[0].Details.NewBalance)
	assert.Equal(t, "117.30", txns[0].Details.NewBalance.Amount)

	// Path segments with reserved characters must be escaped, not spliced.
	require.Len(t, paths, 2)
	assert.Equal(t, "/obp/v5.1.0/banks/bank%2Fx/accounts/acc%201/owner/account", paths[0])
	assert.Equal(t, "/obp/v5.1.0/banks/bank%2Fx/accounts/acc%201/owner/transactions", paths[1])
}
