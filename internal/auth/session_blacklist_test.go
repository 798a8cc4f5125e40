package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistAddAndCheck(t *testing.T) {
	store := NewInMemoryBlacklistStore()

	listed, err := store.IsBlacklisted("unknown-token")
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, store.AddToBlacklist("revoked-token", time.Now().Add(time.Hour)))

	listed, err = store.IsBlacklisted("revoked-token")
	require.NoError(t, err)
	assert.True(t, listed)
}

func TestBlacklistCleanUpExpired(t *testing.T) {
	store := NewInMemoryBlacklistStore()

	require.NoError(t, store.AddToBlacklist("stale-token", time.Now().Add(-time.Minute)))
	require.NoError(t, store.AddToBlacklist("fresh-token", time.Now().Add(time.Hour)))

	store.CleanUpExpired()

	stale, _ := store.IsBlacklisted("stale-token")
	fresh, _ := store.IsBlacklisted("fresh-token")
	assert.False(t, stale)
	assert.True(t, fresh)
}
