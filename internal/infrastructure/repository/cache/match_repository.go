package cache

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	basecache "github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

const (
	matchListKey     = "match:list"
	matchByIDKeyPref = "match:id:"
)

// MatchRepository is a read-through cache over a match.Repository.
// Writes go to the next repository and invalidate the affected keys.
type MatchRepository struct {
	next   match.Repository
	loader *basecache.Loader
	ttl    time.Duration
}

func NewMatchRepository(next match.Repository, c basecache.Cache, ttl time.Duration) *MatchRepository {
	return &MatchRepository{next: next, loader: basecache.NewLoader(c), ttl: ttl}
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}

	keys := make([]string, 0, len(items)+1)
	keys = append(keys, matchListKey)
	for _, item := range items {
		keys = append(keys, matchByIDKeyPref+item.ID)
	}
	basecache.Invalidate(ctx, r.loader.Cache(), keys...)
	return nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	raw, err := r.loader.GetOrLoad(ctx, matchListKey, r.ttl, func(ctx context.Context) ([]byte, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return sonic.Marshal(items)
	})
	if err != nil {
		return nil, err
	}

	var items []match.Match
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cached match list: %w", err)
	}
	return items, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	raw, err := r.loader.GetOrLoad(ctx, matchByIDKeyPref+id, r.ttl, func(ctx context.Context) ([]byte, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return sonic.Marshal(cachedMatchByID{Value: item, Exists: exists})
	})
	if err != nil {
		return match.Match{}, false, err
	}

	var cached cachedMatchByID
	if err := sonic.Unmarshal(raw, &cached); err != nil {
		return match.Match{}, false, fmt.Errorf("decode cached match: %w", err)
	}
	return cached.Value, cached.Exists, nil
}

type cachedMatchByID struct {
	Value  match.Match `json:"value"`
	Exists bool        `json:"exists"`
}
