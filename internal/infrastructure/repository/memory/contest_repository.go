package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/contest"
)

type ContestRepository struct {
	mu       sync.RWMutex
	contests map[string]contest.Contest
	entries  map[string][]contest.Entry
}

func NewContestRepository() *ContestRepository {
	return &ContestRepository{
		contests: make(map[string]contest.Contest),
		entries:  make(map[string][]contest.Entry),
	}
}

func (r *ContestRepository) Create(_ context.Context, item contest.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contests[item.ID]; exists {
		return fmt.Errorf("create contest: id %s already exists", item.ID)
	}
	item.EntryCount = 0
	r.contests[item.ID] = item
	return nil
}

func (r *ContestRepository) GetByID(_ context.Context, contestID string) (contest.Contest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.contests[contestID]
	return item, exists, nil
}

func (r *ContestRepository) ListByMatch(_ context.Context, matchID string) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0)
	for _, item := range r.contests {
		if item.MatchID == matchID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ContestRepository) CreateEntry(_ context.Context, entry contest.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.contests[entry.ContestID]
	if !exists {
		return fmt.Errorf("create contest entry: contest %s not found", entry.ContestID)
	}
	if item.IsFull() {
		return contest.ErrContestFull
	}
	for _, existing := range r.entries[entry.ContestID] {
		if existing.UserID == entry.UserID {
			return contest.ErrAlreadyJoined
		}
	}

	r.entries[entry.ContestID] = append(r.entries[entry.ContestID], entry)
	item.EntryCount++
	item.UpdatedAt = entry.JoinedAt
	r.contests[entry.ContestID] = item
	return nil
}

func (r *ContestRepository) ListEntries(_ context.Context, contestID string) ([]contest.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]contest.Entry(nil), r.entries[contestID]...), nil
}

func (r *ContestRepository) UpdateEntryScores(_ context.Context, contestID string, updates []contest.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID := make(map[string]contest.Entry, len(updates))
	for _, item := range updates {
		byID[item.ID] = item
	}

	rows := r.entries[contestID]
	for idx := range rows {
		update, ok := byID[rows[idx].ID]
		if !ok {
			continue
		}
		rows[idx].Points = update.Points
		rows[idx].Rank = update.Rank
		rows[idx].UpdatedAt = update.UpdatedAt
	}
	return nil
}
