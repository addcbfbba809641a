package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(4)
	defer c.Close()

	ctx := context.Background()

	require.NoError(t, c.SetBytes(ctx, "a", []byte("payload"), time.Minute))

	got, err := c.GetBytes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	_, err = c.GetBytes(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(4)
	defer c.Close()

	ctx := context.Background()

	require.NoError(t, c.SetBytes(ctx, "a", []byte("x"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := c.GetBytes(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := NewMemoryCache(2)
	defer c.Close()

	ctx := context.Background()

	require.NoError(t, c.SetBytes(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "b", []byte("2"), time.Minute))

	// touch "a" so "b" becomes the eviction candidate
	_, err := c.GetBytes(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.SetBytes(ctx, "c", []byte("3"), time.Minute))

	_, err = c.GetBytes(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = c.GetBytes(ctx, "a")
	assert.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(4)
	defer c.Close()

	ctx := context.Background()

	require.NoError(t, c.SetBytes(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Delete(ctx, "a"))

	_, err := c.GetBytes(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
