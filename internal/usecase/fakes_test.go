package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

var testNow = time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)

type fakeProvider struct {
	mu       sync.Mutex
	matches  []match.Match
	cards    map[string]ExternalScorecard
	squads   map[string]player.Squad
	listErr  error
	cardErr  error
	squadErr error
	calls    int
}

func (f *fakeProvider) ListMatches(context.Context) ([]match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]match.Match(nil), f.matches...), nil
}

func (f *fakeProvider) GetMatch(_ context.Context, matchID string) (match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return match.Match{}, f.listErr
	}
	for _, item := range f.matches {
		if item.ID == matchID {
			return item, nil
		}
	}
	return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
}

func (f *fakeProvider) GetScorecard(_ context.Context, matchID string) (ExternalScorecard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.cardErr != nil {
		return ExternalScorecard{}, f.cardErr
	}
	card, ok := f.cards[matchID]
	if !ok {
		return ExternalScorecard{}, fmt.Errorf("%w: scorecard=%s", ErrNotFound, matchID)
	}
	return card, nil
}

func (f *fakeProvider) GetSquad(_ context.Context, matchID string) (player.Squad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.squadErr != nil {
		return player.Squad{}, f.squadErr
	}
	squad, ok := f.squads[matchID]
	if !ok {
		return player.Squad{}, fmt.Errorf("%w: squad=%s", ErrNotFound, matchID)
	}
	return squad, nil
}

type sequenceIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

func upcomingMatch(id string, in time.Duration) match.Match {
	return match.Match{ID: id, Name: "Match " + id, StartAt: testNow.Add(in)}
}

func liveMatch(id string, since time.Duration) match.Match {
	return match.Match{ID: id, Name: "Match " + id, StartAt: testNow.Add(-since), HasStarted: true}
}

func completedMatch(id string, ago time.Duration) match.Match {
	return match.Match{ID: id, Name: "Match " + id, StartAt: testNow.Add(-ago), HasStarted: true, HasEnded: true}
}

// testSquad returns a squad with players p01..p<n>, split across two sides.
func testSquad(matchID string, n int) player.Squad {
	squad := player.Squad{MatchID: matchID, Teams: []player.SquadTeam{{TeamName: "Home"}, {TeamName: "Away"}}}
	for i := 1; i <= n; i++ {
		side := i % 2
		squad.Teams[side].Players = append(squad.Teams[side].Players, player.Player{
			ID:          testPlayerID(i),
			Name:        "Player " + testPlayerID(i),
			TeamName:    squad.Teams[side].TeamName,
			PlayingRole: scoring.PlayingRoleBatsman,
		})
	}
	return squad
}

func testPlayerID(i int) string {
	return fmt.Sprintf("p%02d", i)
}

func testEleven() []string {
	out := make([]string, 0, 11)
	for i := 1; i <= 11; i++ {
		out = append(out, testPlayerID(i))
	}
	return out
}
