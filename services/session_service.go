package services

import (
	"context"
	"errors"

	"github.com/asaikali/money-mate/obp"
	"github.com/asaikali/money-mate/session"
	"go.uber.org/zap"
)

// DirectLoginGateway is the slice of the OBP gateway the session
// lifecycle needs.
type DirectLoginGateway interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// SessionService orchestrates the session lifecycle: login exchanges
// user credentials for an upstream token and issues a local session
// token; logout revokes the local token.
type SessionService struct {
	gateway DirectLoginGateway
	store   session.Store
	logger  *zap.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(gateway DirectLoginGateway, store session.Store, logger *zap.Logger) *SessionService {
	return &SessionService{
		gateway: gateway,
		store:   store,
		logger:  logger,
	}
}

// Login authenticates against OBP and, on success, creates a session
// holding the upstream credential. No session entry is created on any
// failure path.
func (s *SessionService) Login(ctx context.Context, username, password string) (string, error) {
	obpToken, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, obp.ErrAuthRejected) {
			s.logger.Warn("login rejected by upstream", zap.String("username", username))
			return "", NewDomainError(ErrorTypeAuthentication, "authentication failed", err)
		}
		s.logger.Error("upstream error during login",
			zap.String("username", username),
			zap.Error(err))
		return "", NewDomainError(ErrorTypeUnavailable, "banking service unavailable", err)
	}

	token := s.store.Create(username, obpToken)
	s.logger.Info("session created", zap.String("username", username))
	return token, nil
}

// Logout revokes a session token. Idempotent: revoking an unknown or
// already-revoked token succeeds silently.
func (s *SessionService) Logout(token string) {
	s.store.Revoke(token)
	s.logger.Debug("session revoked")
}
