package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *RevocationStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRevocationStore(client)
}

func TestRevocationStore_RevokeAndCheck(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("revoked:jti-1"))
	assert.Equal(t, time.Minute, mr.TTL("revoked:jti-1"))
}

func TestRevocationStore_ExpiresWithToken(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-2", 30*time.Second))
	mr.FastForward(31 * time.Second)

	revoked, err := store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationStore_ExpiredTokenIsNoop(t *testing.T) {
	mr, store := newTestStore(t)

	require.NoError(t, store.Revoke(context.Background(), "jti-3", 0))
	assert.False(t, mr.Exists("revoked:jti-3"))
}

func TestRevocationStore_Unavailable(t *testing.T) {
	mr, store := newTestStore(t)
	mr.Close()

	_, err := store.IsRevoked(context.Background(), "jti-4")
	assert.Error(t, err)
	assert.Error(t, store.Revoke(context.Background(), "jti-4", time.Minute))
}
