package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestLimiter(t *testing.T, max int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLimiter(client, max, window), mr
}

func TestRedisLimiterDeniesAboveMax(t *testing.T) {
	l, _ := newRedisTestLimiter(t, 5, 60*time.Second)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok, "6th request in the window should be denied")
}

func TestRedisLimiterResetsAfterWindow(t *testing.T) {
	l, mr := newRedisTestLimiter(t, 5, 60*time.Second)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		l.Allow(ctx, "203.0.113.7")
	}

	mr.FastForward(61 * time.Second)

	ok, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, ok, "counter expires with the window and the key recovers")
}

func TestRedisLimiterKeysAreIndependent(t *testing.T) {
	l, _ := newRedisTestLimiter(t, 1, 60*time.Second)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok, "a different key gets its own window")
}

// A counter left without an expiry, for example when the process died
// between the increment and the expiry write, must not deny its key
// forever. Allow restores the window boundary on the next call.
func TestRedisLimiterRecoversCounterWithoutExpiry(t *testing.T) {
	l, mr := newRedisTestLimiter(t, 5, 60*time.Second)
	ctx := context.Background()

	require.NoError(t, mr.Set("ratelimit:203.0.113.7", "1"))
	require.Equal(t, time.Duration(0), mr.TTL("ratelimit:203.0.113.7"))

	for i := 0; i < 4; i++ {
		ok, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Greater(t, mr.TTL("ratelimit:203.0.113.7"), time.Duration(0),
		"first call after the orphaned increment reattaches an expiry")

	ok, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok, "limit still enforced within the restored window")

	mr.FastForward(61 * time.Second)

	ok, err = l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, ok, "key recovers once the restored window elapses")
}
