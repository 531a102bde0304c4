package middleware

import (
	"context"

	"github.com/asaikali/money-mate/session"
)

// Context key type to avoid collisions
type contextKey string

// PrincipalKey is the context key for the resolved session principal
const PrincipalKey contextKey = "principal"

// GetPrincipalFromContext retrieves the session principal from context.
// Returns nil for anonymous requests.
func GetPrincipalFromContext(ctx context.Context) *session.Principal {
	if val := ctx.Value(PrincipalKey); val != nil {
		if principal, ok := val.(*session.Principal); ok {
			return principal
		}
	}
	return nil
}

// WithPrincipal binds a session principal to the context
func WithPrincipal(ctx context.Context, principal *session.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}
