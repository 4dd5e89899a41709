package match

import "context"

// Repository persists provider match snapshots. Matches are never deleted.
type Repository interface {
	UpsertMany(ctx context.Context, matches []Match) error
	List(ctx context.Context) ([]Match, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
}
