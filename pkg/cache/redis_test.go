package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", []byte("<svg/>"), time.Hour))
	assert.True(t, mr.Exists(DefaultRedisPrefix+"k"))

	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "<svg/>", string(data))

	require.NoError(t, c.Delete(ctx, "k"))
	_, hit, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "k", []byte("x"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(DefaultRedisPrefix+"k"))

	mr.FastForward(2 * time.Minute)
	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "forever", []byte("x"), 0))
	assert.Zero(t, mr.TTL(DefaultRedisPrefix+"forever"))
}

func TestRedisCachePrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), WithRedisPrefix("tenant:"))
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", []byte("x"), 0))
	assert.True(t, mr.Exists("tenant:k"))
	assert.False(t, mr.Exists(DefaultRedisPrefix+"k"))
}

func TestRedisCacheFromURL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := NewRedisCacheFromURL(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Set(ctx, "k", []byte("x"), 0))

	_, err = NewRedisCacheFromURL(ctx, "not a url")
	assert.Error(t, err)
}

func TestRedisCacheServerDown(t *testing.T) {
	fastRetries(t)
	ctx := context.Background()
	mr, c := newTestRedis(t)
	mr.Close()

	_, hit, err := c.Get(ctx, "k")
	assert.False(t, hit)
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "k", []byte("x"), 0))
}
