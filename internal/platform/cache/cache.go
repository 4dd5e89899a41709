package cache

import (
	"context"
	"time"
)

// Cache is a best-effort byte cache with per-entry expiry.
// Implementations never fail a caller: backend errors surface as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Deleter is implemented by caches that support explicit invalidation.
type Deleter interface {
	Delete(ctx context.Context, key string)
}

// Invalidate removes keys when c supports it and is a no-op otherwise.
func Invalidate(ctx context.Context, c Cache, keys ...string) {
	d, ok := c.(Deleter)
	if !ok {
		return
	}
	for _, key := range keys {
		d.Delete(ctx, key)
	}
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) {
	return nil, false
}

func (Nop) Set(context.Context, string, []byte, time.Duration) {}
