package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeybarrel/backend/internal/domain"
)

// newTestRedisCache starts an in-process Redis and connects a cache to it
func newTestRedisCache(t *testing.T, prefix string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)

	cache, err := NewRedisCache("redis://"+server.Addr()+"/0", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, server
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache("not-a-redis-url", "honeybarrel")
	assert.Error(t, err)
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	cache, err := NewRedisCache("redis://localhost:6379/0", "honeybarrel")
	require.NoError(t, err)
	defer cache.Close()

	assert.Equal(t, "honeybarrel:baxus:listings", cache.key("baxus:listings"))

	bare, err := NewRedisCache("redis://localhost:6379/0", "")
	require.NoError(t, err)
	defer bare.Close()

	assert.Equal(t, "baxus:listings", bare.key("baxus:listings"))
}

func TestRedisCache_SetGet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value []byte
		ttl   time.Duration
	}{
		{"listings snapshot", "baxus:listings", []byte(`[{"id":"1","name":"Opus One"}]`), 15 * time.Minute},
		{"empty catalog", "baxus:listings", []byte(`[]`), time.Minute},
		{"no expiry", "pinned", []byte("value"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, server := newTestRedisCache(t, "honeybarrel")
			ctx := context.Background()

			require.NoError(t, cache.Set(ctx, tt.key, tt.value, tt.ttl))

			got, err := cache.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)

			stored, err := server.Get("honeybarrel:" + tt.key)
			require.NoError(t, err)
			assert.Equal(t, string(tt.value), stored)
			assert.Equal(t, tt.ttl, server.TTL("honeybarrel:"+tt.key))
		})
	}
}

func TestRedisCache_GetMiss(t *testing.T) {
	cache, _ := newTestRedisCache(t, "honeybarrel")

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NotErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestRedisCache_Expiry(t *testing.T) {
	cache, server := newTestRedisCache(t, "honeybarrel")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "baxus:listings", []byte("[]"), 15*time.Minute))

	server.FastForward(14 * time.Minute)
	_, err := cache.Get(ctx, "baxus:listings")
	require.NoError(t, err)

	server.FastForward(time.Minute)
	_, err = cache.Get(ctx, "baxus:listings")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := cache.Exists(ctx, "baxus:listings")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCache_DeleteExists(t *testing.T) {
	cache, _ := newTestRedisCache(t, "honeybarrel")
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "baxus:listings")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.Set(ctx, "baxus:listings", []byte("[]"), time.Minute))

	exists, err = cache.Exists(ctx, "baxus:listings")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "baxus:listings"))

	exists, err = cache.Exists(ctx, "baxus:listings")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is not an error
	assert.NoError(t, cache.Delete(ctx, "baxus:listings"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	cache, err := NewRedisCache("redis://"+server.Addr()+"/0", "honeybarrel")
	require.NoError(t, err)
	defer cache.Close()
	server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = cache.Get(ctx, "baxus:listings")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	assert.ErrorIs(t, cache.Set(ctx, "baxus:listings", []byte("[]"), time.Minute), domain.ErrCacheUnavailable)
	assert.ErrorIs(t, cache.Delete(ctx, "baxus:listings"), domain.ErrCacheUnavailable)

	_, err = cache.Exists(ctx, "baxus:listings")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	assert.ErrorIs(t, cache.Ping(ctx), domain.ErrCacheUnavailable)
}
