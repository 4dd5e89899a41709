package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
)

// Loader memoizes expensive loads in a Cache and collapses concurrent loads
// of the same key into one call.
type Loader struct {
	cache  Cache
	flight resilience.SingleFlight[[]byte]
}

func NewLoader(c Cache) *Loader {
	if c == nil {
		c = Nop{}
	}
	return &Loader{cache: c}
}

func (l *Loader) Cache() Cache {
	return l.cache
}

func (l *Loader) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if load == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return load(ctx)
	}

	if value, ok := l.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, _, err := l.flight.Do(key, func() ([]byte, error) {
		if cached, ok := l.cache.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		l.cache.Set(ctx, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
