package obp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// headerDirectLogin is the single-value authentication header OBP
	// expects: "username=…, password=…, consumer_key=…" on the login
	// call and "token=…" on every call after it.
	headerDirectLogin = "DirectLogin"

	directLoginPath = "/my/logins/direct"
)

// Config holds the settings the OBP client needs. Timeouts are fixed
// configuration; no per-operation budgets exist on top of them.
type Config struct {
	BaseURL        string
	APIVersion     string
	ConsumerKey    string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Client is the typed gateway to the OBP API. It is stateless and
// credential-agnostic: every operation takes the DirectLogin credential
// explicitly, so the same client serves user-scoped and service-scoped
// calls. It performs no retries; translating a failure into a retry is
// a caller policy.
type Client struct {
	baseURL     string
	apiVersion  string
	consumerKey string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a Client for the configured OBP deployment.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout == 0 {
		connectTimeout = 5 * time.Second
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 30 * time.Second
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiVersion:  cfg.APIVersion,
		consumerKey: cfg.ConsumerKey,
		httpClient: &http.Client{
			Timeout: readTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: connectTimeout,
				}).DialContext,
			},
		},
		logger: logger,
	}
}

// Login authenticates a user with OBP DirectLogin and returns the
// upstream credential. Rejected credentials yield ErrAuthRejected; an
// unreachable or misbehaving upstream yields ErrUnavailable.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	const op = "login"

	header := fmt.Sprintf(
		"username=%s, password=%s, consumer_key=%s",
		username, password, c.consumerKey,
	)

	c.logger.Debug("attempting OBP DirectLogin", zap.String("username", username))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+directLoginPath, strings.NewReader("{}"))
	if err != nil {
		return "", unavailable(op, 0, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerDirectLogin, header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("OBP DirectLogin request failed",
			zap.String("username", username),
			zap.Error(err))
		return "", unavailable(op, 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", unavailable(op, resp.StatusCode, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		// OBP signals bad DirectLogin credentials with 400 or 401.
		c.logger.Warn("OBP DirectLogin rejected",
			zap.String("username", username),
			zap.Int("status", resp.StatusCode))
		return "", authRejected(op, resp.StatusCode, "authentication failed", nil)
	default:
		c.logger.Error("OBP DirectLogin returned unexpected status",
			zap.String("username", username),
			zap.Int("status", resp.StatusCode))
		return "", unavailable(op, resp.StatusCode, "unexpected status", nil)
	}

	var login DirectLoginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return "", unavailable(op, resp.StatusCode, "malformed response body", err)
	}
	if login.Token == "" {
		c.logger.Error("OBP DirectLogin returned no token", zap.String("username", username))
		return "", authRejected(op, resp.StatusCode, "no token received", nil)
	}

	c.logger.Info("successfully authenticated user", zap.String("username", username))
	return login.Token, nil
}

// CurrentUser fetches the user the credential belongs to.
func (c *Client) CurrentUser(ctx context.Context, credential string) (*UserDetails, error) {
	var user UserDetails
	if err := c.getJSON(ctx, "current_user", credential, c.apiPath("/users/current"), &user); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched current user", zap.String("username", user.Username))
	return &user, nil
}

// Accounts fetches the credential owner's account list.
func (c *Client) Accounts(ctx context.Context, credential string) ([]Account, error) {
	var accounts AccountsResponse
	if err := c.getJSON(ctx, "accounts", credential, c.apiPath("/my/accounts"), &accounts); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched accounts", zap.Int("count", len(accounts.Accounts)))
	return accounts.Accounts, nil
}

// Banks fetches all banks known to the upstream.
func (c *Client) Banks(ctx context.Context, credential string) ([]Bank, error) {
	var banks BanksResponse
	if err := c.getJSON(ctx, "banks", credential, c.apiPath("/banks"), &banks); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched banks", zap.Int("count", len(banks.Banks)))
	return banks.Banks, nil
}

// AccountDetails fetches one account's details, including its balance.
// Callers enriching a listing must treat a failure here as best-effort
// and keep the listing alive.
func (c *Client) AccountDetails(ctx context.Context, credential, bankID, accountID string) (*AccountDetails, error) {
	path := c.apiPath("/banks/" + url.PathEscape(bankID) + "/accounts/" + url.PathEscape(accountID) + "/owner/account")
	var details AccountDetails
	if err := c.getJSON(ctx, "account_details", credential, path, &details); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched account details",
		zap.String("bank_id", bankID),
		zap.String("account_id", accountID))
	return &details, nil
}

// Transactions fetches one account's transaction list.
func (c *Client) Transactions(ctx context.Context, credential, bankID, accountID string) ([]Transaction, error) {
	path := c.apiPath("/banks/" + url.PathEscape(bankID) + "/accounts/" + url.PathEscape(accountID) + "/owner/transactions")
	var transactions TransactionsResponse
	if err := c.getJSON(ctx, "transactions", credential, path, &transactions); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched transactions",
		zap.String("bank_id", bankID),
		zap.String("account_id", accountID),
		zap.Int("count", len(transactions.Transactions)))
	return transactions.Transactions, nil
}

// apiPath prefixes a path with the versioned OBP API root.
func (c *Client) apiPath(path string) string {
	return "/obp/" + c.apiVersion + path
}

// getJSON performs an authenticated GET and decodes the response into
// out, translating every failure into a classified APIError.
func (c *Client) getJSON(ctx context.Context, op, credential, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return unavailable(op, 0, "failed to create request", err)
	}
	req.Header.Set(headerDirectLogin, "token="+credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("OBP request failed",
			zap.String("op", op),
			zap.Error(err))
		return unavailable(op, 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable(op, resp.StatusCode, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized:
		c.logger.Warn("OBP rejected credential",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return authRejected(op, resp.StatusCode, "credential rejected", nil)
	default:
		c.logger.Error("OBP returned unexpected status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return unavailable(op, resp.StatusCode, "unexpected status", nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("OBP returned malformed body",
			zap.String("op", op),
			zap.Error(err))
		return unavailable(op, resp.StatusCode, "malformed response body", err)
	}

	return nil
}
