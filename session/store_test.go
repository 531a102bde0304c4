package session

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndFind(t *testing.T) {
	store := NewMemoryStore()

	token := store.Create("alice", "obp-token-1")
	assert.True(t, strings.HasPrefix(token, "MMAT-"))

	principal, ok := store.Find(token)
	require.True(t, ok)
	assert.Equal(t, "alice", principal.Subject)
	assert.Equal(t, "obp-token-1", principal.ObpToken)
}

func TestMemoryStoreFindUnknownToken(t *testing.T) {
	store := NewMemoryStore()

	principal, ok := store.Find("MMAT-does-not-exist")
	assert.False(t, ok)
	assert.Nil(t, principal)
}

func TestMemoryStoreRevoke(t *testing.T) {
	store := NewMemoryStore()
	token := store.Create("alice", "obp-token-1")

	store.Revoke(token)

	_, ok := store.Find(token)
	assert.False(t, ok)

	// Revoking again, or revoking garbage, must not panic or error.
	store.Revoke(token)
	store.Revoke("never-issued")
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreTokenUniqueness(t *testing.T) {
	store := NewMemoryStore()

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		token := store.Create("alice", "obp-token")
		_, dup := seen[token]
		require.False(t, dup, "duplicate token issued: %s", token)
		seen[token] = struct{}{}
	}
	assert.Equal(t, 10000, store.Len())
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	tokens := make([]string, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = store.Create("alice", "obp-token")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, store.Len())

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				store.Revoke(tokens[i])
			} else {
				_, ok := store.Find(tokens[i])
				assert.True(t, ok)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}
