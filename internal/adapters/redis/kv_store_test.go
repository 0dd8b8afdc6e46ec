package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/internal/ports"
	"github.com/folioworks/folio/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestKVStore_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewKVStore(client, KVStoreOptions{})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "client-1:token", "tok"))

	got, err := store.Get(ctx, "client-1:token")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	// Stored under the prefix
	raw, err := client.Get(ctx, DefaultPrefix+"client-1:token").Result()
	require.NoError(t, err)
	assert.Equal(t, "tok", raw)
}

func TestKVStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewKVStore(client, KVStoreOptions{})
	ctx := context.Background()

	_, err := store.Get(ctx, "non-existent")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestKVStore_DeleteMany(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewKVStore(client, KVStoreOptions{Prefix: "test:"})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "c:token", "tok"))
	require.NoError(t, store.Set(ctx, "c:user", "{}"))

	require.NoError(t, store.Delete(ctx, "c:token", "c:user", "c:missing"))

	_, err := store.Get(ctx, "c:token")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	_, err = store.Get(ctx, "c:user")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	// Deleting again is a no-op
	require.NoError(t, store.Delete(ctx, "c:token"))
	require.NoError(t, store.Delete(ctx))
}

func TestKVStore_TTL(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewKVStore(client, KVStoreOptions{TTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "ttl:token", "tok"))
	ttl, err := client.TTL(ctx, DefaultPrefix+"ttl:token").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestKVStore_SetEmptyKey(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewKVStore(client, KVStoreOptions{})
	assert.Error(t, store.Set(context.Background(), "", "x"))
}
