package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

type PointsRepository struct {
	mu      sync.RWMutex
	byMatch map[string]map[string]scoring.PlayerMatchPoints
}

func NewPointsRepository() *PointsRepository {
	return &PointsRepository{byMatch: make(map[string]map[string]scoring.PlayerMatchPoints)}
}

func (r *PointsRepository) UpsertMatchPoints(_ context.Context, items []scoring.PlayerMatchPoints) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		rows, ok := r.byMatch[item.MatchID]
		if !ok {
			rows = make(map[string]scoring.PlayerMatchPoints)
			r.byMatch[item.MatchID] = rows
		}
		item.Breakdown.Items = append([]scoring.LineItem(nil), item.Breakdown.Items...)
		rows[item.PlayerID] = item
	}
	return nil
}

func (r *PointsRepository) ListMatchPoints(_ context.Context, matchID string) ([]scoring.PlayerMatchPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byMatch[matchID]
	out := make([]scoring.PlayerMatchPoints, 0, len(rows))
	for _, item := range rows {
		item.Breakdown.Items = append([]scoring.LineItem(nil), item.Breakdown.Items...)
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}
