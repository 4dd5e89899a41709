package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

func scoredMatchProvider() *fakeProvider {
	return &fakeProvider{
		matches: []match.Match{liveMatch("m1", time.Hour)},
		cards: map[string]ExternalScorecard{
			"m1": {
				Match: liveMatch("m1", time.Hour),
				Performances: []scoring.Performance{
					{PlayerID: "p02", Runs: 50, BallsFaced: 34, Fours: 6, Sixes: 2, Dismissed: true},
					{PlayerID: "p01", PlayingRole: scoring.PlayingRoleBowler, Wickets: 5, Overs: 4, RunsConceded: 20, Maidens: 1},
					{PlayerID: "p03", Overs: 1.7},
				},
			},
		},
		squads: map[string]player.Squad{"m1": testSquad("m1", 12)},
	}
}

func newTestPointsService(provider MatchProvider, teams team.Repository) (*PointsService, *memory.PointsRepository) {
	repo := memory.NewPointsRepository()
	svc := NewPointsService(provider, scoring.DefaultEngine(), repo, teams, logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func TestPointsService_MatchPlayerPoints(t *testing.T) {
	t.Parallel()

	svc, repo := newTestPointsService(scoredMatchProvider(), memory.NewUserTeamRepository())

	got, err := svc.MatchPlayerPoints(context.Background(), "m1")
	if err != nil {
		t.Fatalf("match player points: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected invalid record to be skipped, got=%d rows", len(got))
	}
	if got[0].PlayerID != "p01" || got[0].Points != scoring.FromInt(157) {
		t.Fatalf("unexpected top row: %+v", got[0])
	}
	if got[1].PlayerID != "p02" || got[1].Points != scoring.FromInt(68) {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
	if got[1].PlayerName != "Player p02" || got[1].TeamName != "Home" {
		t.Fatalf("expected squad details to be merged, got=%+v", got[1])
	}

	stored, err := repo.ListMatchPoints(context.Background(), "m1")
	if err != nil {
		t.Fatalf("list stored points: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected points to be persisted, got=%d", len(stored))
	}
}

func TestPointsService_ServesSnapshotWhenProviderUnavailable(t *testing.T) {
	t.Parallel()

	provider := scoredMatchProvider()
	svc, _ := newTestPointsService(provider, memory.NewUserTeamRepository())
	ctx := context.Background()

	if _, err := svc.MatchPlayerPoints(ctx, "m1"); err != nil {
		t.Fatalf("warm snapshot: %v", err)
	}

	provider.cardErr = fmt.Errorf("%w: scorecard timeout", ErrDependencyUnavailable)
	got, err := svc.MatchPlayerPoints(ctx, "m1")
	if err != nil {
		t.Fatalf("expected snapshot, got err=%v", err)
	}
	if len(got) != 2 || got[0].Points != scoring.FromInt(157) {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestPointsService_PlayerBreakdown(t *testing.T) {
	t.Parallel()

	svc, _ := newTestPointsService(scoredMatchProvider(), memory.NewUserTeamRepository())
	ctx := context.Background()

	detail, err := svc.PlayerBreakdown(ctx, "m1", "p02", scoring.RoleCaptain)
	if err != nil {
		t.Fatalf("player breakdown: %v", err)
	}
	if detail.Breakdown.Base != scoring.FromInt(68) || detail.Breakdown.Total != scoring.FromInt(136) {
		t.Fatalf("unexpected breakdown: base=%s total=%s", detail.Breakdown.Base, detail.Breakdown.Total)
	}

	if _, err := svc.PlayerBreakdown(ctx, "m1", "p99", scoring.RoleNone); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
	if _, err := svc.PlayerBreakdown(ctx, "m1", "p03", scoring.RoleNone); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for malformed overs, got=%v", err)
	}
}

func TestPointsService_TeamPointsAppliesCaptaincy(t *testing.T) {
	t.Parallel()

	teams := memory.NewUserTeamRepository()
	item := team.UserTeam{
		ID:            "t1",
		UserID:        "u1",
		MatchID:       "m1",
		Name:          "Strikers",
		PlayerIDs:     testEleven(),
		CaptainID:     "p01",
		ViceCaptainID: "p02",
	}
	if err := teams.Create(context.Background(), item); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	svc, _ := newTestPointsService(scoredMatchProvider(), teams)

	got, err := svc.TeamPoints(context.Background(), "u1", "t1")
	if err != nil {
		t.Fatalf("team points: %v", err)
	}
	// 157 x 2 + 68 x 1.5
	if want := scoring.FromInt(416); got.Total != want {
		t.Fatalf("unexpected total: got=%s want=%s", got.Total, want)
	}
	if len(got.Players) != 11 {
		t.Fatalf("expected eleven rows, got=%d", len(got.Players))
	}
	if got.Players[0].Role != scoring.RoleCaptain || got.Players[0].Points != scoring.FromInt(314) {
		t.Fatalf("unexpected captain row: %+v", got.Players[0])
	}
	if got.Players[5].Played {
		t.Fatalf("expected non-playing pick to score nothing: %+v", got.Players[5])
	}

	if _, err := svc.TeamPoints(context.Background(), "u2", "t1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got=%v", err)
	}
}
