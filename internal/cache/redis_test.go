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

type stats struct {
	Posts int `json:"posts"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client), mr
}

func TestCacheAsideFetchesOnceUntilExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *stats) func() error {
		return func() error {
			calls++
			dest.Posts = 7
			return nil
		}
	}

	var first stats
	require.NoError(t, c.CacheAside(ctx, "dashboard:t1", &first, time.Minute, fetch(&first)))
	var second stats
	require.NoError(t, c.CacheAside(ctx, "dashboard:t1", &second, time.Minute, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 7, second.Posts)

	mr.FastForward(2 * time.Minute)
	var third stats
	require.NoError(t, c.CacheAside(ctx, "dashboard:t1", &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestDeleteInvalidates(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", stats{Posts: 1}, time.Minute))
	assert.True(t, mr.Exists("k"))

	require.NoError(t, c.Delete(ctx, "k"))
	var got stats
	found, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	found, err := c.GetJSON(ctx, "k", &stats{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.SetJSON(ctx, "k", stats{}, time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))

	called := false
	require.NoError(t, c.CacheAside(ctx, "k", &stats{}, time.Minute, func() error { called = true; return nil }))
	assert.True(t, called)
}
