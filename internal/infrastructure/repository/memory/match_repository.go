package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	repo := &MatchRepository{matches: make(map[string]match.Match, len(seed))}
	for _, item := range seed {
		repo.matches[item.ID] = cloneMatch(item)
	}
	return repo
}

func (r *MatchRepository) UpsertMany(_ context.Context, items []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			continue
		}
		r.matches[item.ID] = cloneMatch(item)
	}
	return nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		out = append(out, cloneMatch(item))
	}
	sort.Slice(out, func(i, j int) bool {
		left, right := out[i].StartAt, out[j].StartAt
		switch {
		case left.IsZero() != right.IsZero():
			return right.IsZero()
		case !left.Equal(right):
			return left.Before(right)
		default:
			return out[i].ID < out[j].ID
		}
	})
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

func cloneMatch(item match.Match) match.Match {
	item.Innings = append([]match.Innings(nil), item.Innings...)
	return item
}
