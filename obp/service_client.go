package obp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ServiceClient performs OBP calls as the application itself. The
// credential is injected by Transport from the ServiceAuthenticator, so
// callers never handle it. On an upstream auth rejection the cached
// credential is invalidated and the failure surfaced, not retried.
type ServiceClient struct {
	baseURL    string
	apiVersion string
	auth       *ServiceAuthenticator
	httpClient *http.Client
	logger     *zap.Logger
}

// NewServiceClient wires a ServiceClient over the credential-injecting
// transport.
func NewServiceClient(cfg Config, auth *ServiceAuthenticator, logger *zap.Logger) *ServiceClient {
	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 30 * time.Second
	}

	return &ServiceClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiVersion: cfg.APIVersion,
		auth:       auth,
		httpClient: &http.Client{
			Timeout:   readTimeout,
			Transport: &Transport{Source: auth},
		},
		logger: logger,
	}
}

// CurrentUser fetches the identity behind the service credential. Used
// as the upstream reachability probe.
func (c *ServiceClient) CurrentUser(ctx context.Context) (*UserDetails, error) {
	const op = "service_current_user"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/obp/"+c.apiVersion+"/users/current", nil)
	if err != nil {
		return nil, unavailable(op, 0, "failed to create request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The transport fails before dispatch when the service login
		// itself fails; preserve that classification.
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		c.logger.Error("OBP service request failed", zap.Error(err))
		return nil, unavailable(op, 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable(op, resp.StatusCode, "failed to read response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Expired or revoked service credential: clear the cache so the
		// next call re-authenticates, and surface the failure.
		c.logger.Warn("service credential rejected, invalidating")
		c.auth.Invalidate()
		return nil, authRejected(op, resp.StatusCode, "service credential rejected", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unavailable(op, resp.StatusCode, "unexpected status", nil)
	}

	var user UserDetails
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, unavailable(op, resp.StatusCode, "malformed response body", err)
	}

	return &user, nil
}
