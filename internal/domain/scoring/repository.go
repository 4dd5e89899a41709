package scoring

import "context"

// Repository stores per-match point snapshots used by leaderboards.
type Repository interface {
	UpsertMatchPoints(ctx context.Context, points []PlayerMatchPoints) error
	ListMatchPoints(ctx context.Context, matchID string) ([]PlayerMatchPoints, error)
}
