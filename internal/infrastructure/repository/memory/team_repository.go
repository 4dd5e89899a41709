package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
)

type UserTeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.UserTeam
}

func NewUserTeamRepository() *UserTeamRepository {
	return &UserTeamRepository{teams: make(map[string]team.UserTeam)}
}

func (r *UserTeamRepository) Create(_ context.Context, item team.UserTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.teams[item.ID]; exists {
		return fmt.Errorf("create user team: id %s already exists", item.ID)
	}
	r.teams[item.ID] = cloneUserTeam(item)
	return nil
}

func (r *UserTeamRepository) Update(_ context.Context, item team.UserTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.teams[item.ID]
	if !exists || current.UserID != item.UserID {
		return fmt.Errorf("update user team: not found")
	}
	item.CreatedAt = current.CreatedAt
	r.teams[item.ID] = cloneUserTeam(item)
	return nil
}

func (r *UserTeamRepository) GetByID(_ context.Context, teamID string) (team.UserTeam, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.teams[teamID]
	if !exists {
		return team.UserTeam{}, false, nil
	}
	return cloneUserTeam(item), true, nil
}

func (r *UserTeamRepository) ListByUser(_ context.Context, userID string) ([]team.UserTeam, error) {
	return r.filter(func(item team.UserTeam) bool { return item.UserID == userID }), nil
}

func (r *UserTeamRepository) ListByMatch(_ context.Context, matchID string) ([]team.UserTeam, error) {
	return r.filter(func(item team.UserTeam) bool { return item.MatchID == matchID }), nil
}

func (r *UserTeamRepository) ListByIDs(_ context.Context, teamIDs []string) ([]team.UserTeam, error) {
	wanted := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = struct{}{}
	}
	return r.filter(func(item team.UserTeam) bool {
		_, ok := wanted[item.ID]
		return ok
	}), nil
}

func (r *UserTeamRepository) filter(keep func(team.UserTeam) bool) []team.UserTeam {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.UserTeam, 0)
	for _, item := range r.teams {
		if keep(item) {
			out = append(out, cloneUserTeam(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneUserTeam(item team.UserTeam) team.UserTeam {
	item.PlayerIDs = append([]string(nil), item.PlayerIDs...)
	return item
}
