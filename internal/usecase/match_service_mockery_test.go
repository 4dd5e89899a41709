package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	matchmock "github.com/riskibarqy/fantasy-cricket/internal/mocks/domain/match"
	"github.com/stretchr/testify/mock"
)

func TestMatchService_Refresh_PersistsSyncedSnapshotUsingMockery(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	provider := &fakeProvider{matches: []match.Match{upcomingMatch("m1", time.Hour), liveMatch("m2", time.Hour)}}
	svc := newTestMatchService(provider, repo)

	repo.
		On("UpsertMany", mock.Anything, mock.MatchedBy(func(items []match.Match) bool {
			if len(items) != 2 {
				return false
			}
			for _, item := range items {
				if !item.SyncedAt.Equal(testNow) {
					return false
				}
			}
			return true
		})).
		Return(nil).
		Once()

	items, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected refreshed count: %d", len(items))
	}
}

func TestMatchService_Refresh_PersistErrorUsingMockery(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	svc := newTestMatchService(&fakeProvider{matches: []match.Match{upcomingMatch("m1", time.Hour)}}, repo)

	repo.On("UpsertMany", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatalf("expected persist error")
	}
}

func TestMatchService_GetMatch_SnapshotFallbackUsingMockery(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	provider := &fakeProvider{listErr: fmt.Errorf("%w: timeout", ErrDependencyUnavailable)}
	svc := newTestMatchService(provider, repo)

	repo.On("GetByID", mock.Anything, "m1").Return(liveMatch("m1", time.Hour), true, nil).Once()

	got, err := svc.GetMatch(context.Background(), " m1 ")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if got.ID != "m1" {
		t.Fatalf("unexpected match: %+v", got)
	}
}

func TestMatchService_GetScorecard_BucketUsesServiceClockUsingMockery(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	provider := &fakeProvider{cards: map[string]ExternalScorecard{
		"m1": {
			Match:        liveMatch("m1", 2*time.Hour),
			Performances: []scoring.Performance{{PlayerID: "p01", Runs: 12, BallsFaced: 9}},
		},
		"m2": {Match: liveMatch("m2", 30*time.Hour)},
	}}
	svc := newTestMatchService(provider, repo)

	repo.
		On("UpsertMany", mock.Anything, mock.MatchedBy(func(items []match.Match) bool {
			return len(items) == 1 && items[0].SyncedAt.Equal(testNow)
		})).
		Return(nil).
		Twice()

	card, bucket, err := svc.GetScorecard(context.Background(), "m1")
	if err != nil {
		t.Fatalf("get scorecard: %v", err)
	}
	if bucket != match.BucketLive {
		t.Fatalf("expected live bucket at service time, got %q", bucket)
	}
	if len(card.Performances) != 1 {
		t.Fatalf("unexpected performances: %+v", card.Performances)
	}

	_, bucket, err = svc.GetScorecard(context.Background(), "m2")
	if err != nil {
		t.Fatalf("get stale scorecard: %v", err)
	}
	if bucket != "" {
		t.Fatalf("expected stale match outside every bucket, got %q", bucket)
	}
}
