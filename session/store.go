package session

import (
	"sync"

	"github.com/google/uuid"
)

// tokenPrefix marks locally-issued tokens so they are recognizable in
// logs and support tickets. The token remains opaque to clients.
const tokenPrefix = "MMAT-"

// Store is the process-wide registry of issued session tokens.
// Constructed once at startup and injected into every component that
// needs it; entries live until explicit revocation or process exit.
type Store interface {
	// Create generates a new opaque token, records the session, and
	// returns the token. The entry is visible to concurrent Find calls
	// immediately.
	Create(subject, obpToken string) string

	// Find returns the principal for a token. A token that was revoked
	// is indistinguishable from one that never existed.
	Find(token string) (*Principal, bool)

	// Revoke removes a session. Revoking an unknown token is a no-op.
	Revoke(token string)
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Principal
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Principal),
	}
}

// Create implements Store. Token entropy comes from a random UUID
// (122 bits), which makes collisions negligible.
func (s *MemoryStore) Create(subject, obpToken string) string {
	token := tokenPrefix + uuid.NewString()
	principal := &Principal{
		Subject:  subject,
		ObpToken: obpToken,
	}

	s.mu.Lock()
	s.sessions[token] = principal
	s.mu.Unlock()

	return token
}

// Find implements Store.
func (s *MemoryStore) Find(token string) (*Principal, bool) {
	s.mu.RLock()
	principal, ok := s.sessions[token]
	s.mu.RUnlock()
	return principal, ok
}

// Revoke implements Store.
func (s *MemoryStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len returns the number of active sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
