package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache reads through a fast local layer backed by a shared remote
// layer. Writes go to both; remote failures on read fall back to a miss.
type LayeredCache struct {
	local    BytesCache
	remote   BytesCache
	localTTL time.Duration
}

// NewLayeredCache combines a local and a remote cache. localTTL caps how
// long remote hits are pinned locally.
func NewLayeredCache(local, remote BytesCache, localTTL time.Duration) *LayeredCache {
	if localTTL <= 0 {
		localTTL = time.Minute
	}
	return &LayeredCache{
		local:    local,
		remote:   remote,
		localTTL: localTTL,
	}
}

func (c *LayeredCache) GetBytes(ctx context.Context, key string) ([]byte, error) {
	if val, err := c.local.GetBytes(ctx, key); err == nil {
		return val, nil
	}

	val, err := c.remote.GetBytes(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	_ = c.local.SetBytes(ctx, key, val, c.localTTL)
	return val, nil
}

func (c *LayeredCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	localTTL := ttl
	if localTTL > c.localTTL {
		localTTL = c.localTTL
	}
	_ = c.local.SetBytes(ctx, key, value, localTTL)
	return c.remote.SetBytes(ctx, key, value, ttl)
}

func (c *LayeredCache) Delete(ctx context.Context, key string) error {
	_ = c.local.Delete(ctx, key)
	return c.remote.Delete(ctx, key)
}

func (c *LayeredCache) Close() error {
	localErr := c.local.Close()
	remoteErr := c.remote.Close()
	if remoteErr != nil {
		return remoteErr
	}
	return localErr
}
