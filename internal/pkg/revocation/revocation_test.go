package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	revoked, err := store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "a", time.Now().Add(time.Hour)))
	revoked, err = store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, store.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	revoked, err = store.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked, "already expired tokens need no entry")
}

func TestMemoryStore_EntriesLapse(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "a", now.Add(time.Minute)))

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	revoked, err := store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)
}
