package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	scoringmock "github.com/riskibarqy/fantasy-cricket/internal/mocks/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func newMockedPointsService(provider MatchProvider, repo scoring.Repository) *PointsService {
	svc := NewPointsService(provider, scoring.DefaultEngine(), repo, memory.NewUserTeamRepository(), logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestPointsService_MatchPlayerPoints_PersistsRankedRowsUsingMockery(t *testing.T) {
	t.Parallel()

	repo := scoringmock.NewRepository(t)
	svc := newMockedPointsService(scoredMatchProvider(), repo)

	repo.
		On("UpsertMatchPoints", mock.Anything, mock.MatchedBy(func(rows []scoring.PlayerMatchPoints) bool {
			return len(rows) == 2 &&
				rows[0].PlayerID == "p01" &&
				rows[1].PlayerID == "p02" &&
				rows[0].MatchID == "m1" &&
				rows[0].CalculatedAt.Equal(testNow)
		})).
		Return(nil).
		Once()

	got, err := svc.MatchPlayerPoints(context.Background(), "m1")
	if err != nil {
		t.Fatalf("match player points: %v", err)
	}
	if len(got) != 2 || got[0].Points != scoring.FromInt(157) {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestPointsService_MatchPlayerPoints_PersistFailureStillServesUsingMockery(t *testing.T) {
	t.Parallel()

	repo := scoringmock.NewRepository(t)
	svc := newMockedPointsService(scoredMatchProvider(), repo)

	repo.On("UpsertMatchPoints", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	got, err := svc.MatchPlayerPoints(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected computed points despite persist failure: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected row count: %d", len(got))
	}
}

func TestPointsService_MatchPlayerPoints_SnapshotFallbackUsingMockery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		snapshot []scoring.PlayerMatchPoints
		repoErr  error
		wantErr  bool
	}{
		{
			name:     "serves persisted snapshot",
			snapshot: []scoring.PlayerMatchPoints{{MatchID: "m1", PlayerID: "p01", Points: scoring.FromInt(40)}},
		},
		{
			name:    "empty snapshot keeps provider error",
			wantErr: true,
		},
		{
			name:    "snapshot error keeps provider error",
			repoErr: errors.New("db down"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := scoringmock.NewRepository(t)
			provider := scoredMatchProvider()
			provider.cardErr = fmt.Errorf("%w: timeout", ErrDependencyUnavailable)
			svc := newMockedPointsService(provider, repo)

			repo.On("ListMatchPoints", mock.Anything, "m1").Return(tt.snapshot, tt.repoErr).Once()

			got, err := svc.MatchPlayerPoints(context.Background(), "m1")
			if tt.wantErr {
				if !errors.Is(err, ErrDependencyUnavailable) {
					t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("match player points: %v", err)
			}
			if len(got) != 1 || got[0].Points != scoring.FromInt(40) {
				t.Fatalf("unexpected snapshot rows: %+v", got)
			}
		})
	}
}
