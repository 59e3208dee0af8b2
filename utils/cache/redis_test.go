package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCache, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	defer redisCache.Close()
	ctx := context.Background()

	_, err = redisCache.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, redisCache.Set(ctx, "greeting", "hello", time.Minute))
	value, err := redisCache.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	exists, err := redisCache.Exists(ctx, "greeting")
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := redisCache.Increment(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.NoError(t, redisCache.Expire(ctx, "counter", 30*time.Second))
	ttl, err := redisCache.TTL(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ttl)

	mr.FastForward(time.Minute)
	exists, err = redisCache.Exists(ctx, "greeting")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, redisCache.Set(ctx, "a", "1", 0))
	require.NoError(t, redisCache.Delete(ctx, "a", "counter"))
	assert.Empty(t, mr.Keys())
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache("not a url")
	assert.Error(t, err)
}
