package obp

import (
	"context"
	"net/http"
)

// TokenSource resolves the DirectLogin credential to attach to an
// outgoing upstream request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource is a fixed per-user credential, used when the login
// already happened and the session carries the upstream token.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// Transport is an http.RoundTripper that sets the DirectLogin token
// header on every request before dispatch. It performs no retries: a
// credential-expired response is surfaced to the caller, which decides
// whether to invalidate and try again.
type Transport struct {
	// Source resolves the credential per request. For service-level
	// calls this is a *ServiceAuthenticator.
	Source TokenSource

	// Base is the underlying transport; http.DefaultTransport when nil.
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.Source.Token(req.Context())
	if err != nil {
		return nil, err
	}

	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set(headerDirectLogin, "token="+token)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}
