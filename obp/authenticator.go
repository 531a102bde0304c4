package obp

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// serviceLoginKey coalesces all concurrent service logins; there is
// exactly one service credential per process.
const serviceLoginKey = "service-login"

// ServiceCredential is the application-level upstream credential,
// obtained lazily on first need and held until explicit invalidation.
type ServiceCredential struct {
	Token      string
	ObtainedAt time.Time
}

// ServiceAuthenticator obtains and caches the single service-level
// DirectLogin credential. Concurrent callers on a cold cache are
// coalesced into one upstream login: the first caller performs the
// call and every waiter receives the same token or the same error.
// A failed login leaves the cache empty so the next call retries.
type ServiceAuthenticator struct {
	client   *Client
	username string
	password string
	logger   *zap.Logger

	mu     sync.Mutex
	cached *ServiceCredential
	group  singleflight.Group
}

// NewServiceAuthenticator creates an authenticator that logs in with
// the fixed application credentials via the given client.
func NewServiceAuthenticator(client *Client, username, password string, logger *zap.Logger) *ServiceAuthenticator {
	return &ServiceAuthenticator{
		client:   client,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Token returns the cached service credential, performing a single
// coalesced DirectLogin when the cache is cold. Implements TokenSource.
func (a *ServiceAuthenticator) Token(ctx context.Context) (string, error) {
	if token, ok := a.cachedToken(); ok {
		return token, nil
	}

	v, err, _ := a.group.Do(serviceLoginKey, func() (interface{}, error) {
		// A concurrent flight may have filled the cache between the
		// caller's check and this flight starting.
		if token, ok := a.cachedToken(); ok {
			return token, nil
		}

		token, err := a.client.Login(ctx, a.username, a.password)
		if err != nil {
			a.logger.Error("service DirectLogin failed", zap.Error(err))
			return nil, err
		}

		a.mu.Lock()
		a.cached = &ServiceCredential{Token: token, ObtainedAt: time.Now()}
		a.mu.Unlock()

		a.logger.Info("service credential obtained")
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate clears the cached credential, forcing the next Token call
// to re-authenticate. Called when the upstream rejects the credential.
func (a *ServiceAuthenticator) Invalidate() {
	a.mu.Lock()
	a.cached = nil
	a.mu.Unlock()
	a.logger.Info("service credential invalidated")
}

// Credential returns a copy of the cached credential, if any.
func (a *ServiceAuthenticator) Credential() (ServiceCredential, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cached == nil {
		return ServiceCredential{}, false
	}
	return *a.cached, true
}

func (a *ServiceAuthenticator) cachedToken() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cached == nil {
		return "", false
	}
	return a.cached.Token, true
}
