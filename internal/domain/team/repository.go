package team

import "context"

// Repository describes user team persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, team UserTeam) error
	Update(ctx context.Context, team UserTeam) error
	GetByID(ctx context.Context, teamID string) (UserTeam, bool, error)
	ListByUser(ctx context.Context, userID string) ([]UserTeam, error)
	ListByMatch(ctx context.Context, matchID string) ([]UserTeam, error)
	ListByIDs(ctx context.Context, teamIDs []string) ([]UserTeam, error)
}
