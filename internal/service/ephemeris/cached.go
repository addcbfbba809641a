package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"
	"AstroChart/pkg/cache"
)

// Cached wraps a provider with a byte cache. Positions are deterministic
// per (body, instant) so cached entries never go stale; the TTL only
// bounds memory.
type Cached struct {
	inner repository.PositionProvider
	store cache.BytesCache
	ttl   time.Duration
}

// NewCached decorates a provider with position caching.
func NewCached(inner repository.PositionProvider, store cache.BytesCache, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cached{
		inner: inner,
		store: store,
		ttl:   ttl,
	}
}

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) Position(ctx context.Context, body models.Body, instant time.Time) (models.Position, error) {
	key := fmt.Sprintf("pos:%s:%d", body, instant.UnixNano())

	if raw, err := c.store.GetBytes(ctx, key); err == nil {
		var pos models.Position
		if err := json.Unmarshal(raw, &pos); err == nil {
			return pos, nil
		}
	}

	pos, err := c.inner.Position(ctx, body, instant)
	if err != nil {
		return models.Position{}, err
	}

	if raw, err := json.Marshal(pos); err == nil {
		_ = c.store.SetBytes(ctx, key, raw, c.ttl)
	}

	return pos, nil
}
