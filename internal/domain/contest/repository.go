package contest

import "context"

// Repository describes contest and entry persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, contest Contest) error
	GetByID(ctx context.Context, contestID string) (Contest, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Contest, error)

	// CreateEntry inserts the entry and increments the entry count atomically.
	// It returns ErrContestFull or ErrAlreadyJoined when the insert is rejected.
	CreateEntry(ctx context.Context, entry Entry) error
	ListEntries(ctx context.Context, contestID string) ([]Entry, error)
	UpdateEntryScores(ctx context.Context, contestID string, entries []Entry) error
}
