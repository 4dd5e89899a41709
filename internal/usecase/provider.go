package usecase

import (
	"context"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

// ExternalScorecard is one match scorecard with per-player statistics
// merged across innings.
type ExternalScorecard struct {
	Match        match.Match
	Performances []scoring.Performance
}

// MatchProvider is the external cricket data source.
type MatchProvider interface {
	ListMatches(ctx context.Context) ([]match.Match, error)
	GetMatch(ctx context.Context, matchID string) (match.Match, error)
	GetScorecard(ctx context.Context, matchID string) (ExternalScorecard, error)
	GetSquad(ctx context.Context, matchID string) (player.Squad, error)
}
