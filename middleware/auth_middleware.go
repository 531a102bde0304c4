package middleware

import (
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/asaikali/money-mate/session"
	"github.com/asaikali/money-mate/utils"
	"go.uber.org/zap"
)

// TokenFinder resolves an opaque bearer token to a session principal.
type TokenFinder interface {
	Find(token string) (*session.Principal, bool)
}

// Auth provides the per-request bearer authentication middleware.
// Resolve only binds an identity; deciding 401 vs 200 belongs to
// RequireSession on the routes that need one.
type Auth struct {
	tokens TokenFinder
	logger *zap.Logger
}

// NewAuth creates the authentication middleware.
func NewAuth(tokens TokenFinder, logger *zap.Logger) *Auth {
	return &Auth{
		tokens: tokens,
		logger: logger,
	}
}

// Resolve extracts the bearer token and, when it maps to a live
// session, binds the principal to the request context. A missing,
// malformed, or unknown token leaves the request anonymous; this
// middleware never writes a response.
func (a *Auth) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Re-entrant chains: keep an identity bound upstream of us.
		if GetPrincipalFromContext(ctx) != nil {
			next.ServeHTTP(w, r)
			return
		}

		token := ExtractBearerToken(r)
		if token != "" {
			if principal, ok := a.tokens.Find(token); ok {
				ctx = WithPrincipal(ctx, principal)
				a.logger.Debug("session resolved",
					zap.String("request_id", chimiddleware.GetReqID(ctx)),
					zap.String("subject", principal.Subject))
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession rejects anonymous requests with 401. Place after
// Resolve on routes that need an authenticated caller.
func (a *Auth) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if GetPrincipalFromContext(ctx) == nil {
			a.logger.Warn("unauthenticated request to protected route",
				zap.String("request_id", chimiddleware.GetReqID(ctx)),
				zap.String("path", r.URL.Path))
			w.Header().Set("WWW-Authenticate", "Bearer")
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ExtractBearerToken extracts the token from the Authorization header.
// Returns "" for a missing header, a non-bearer scheme, or an empty
// token value.
func ExtractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
