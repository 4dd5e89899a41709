package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

type PlayerPointsDetail struct {
	MatchID     string
	Performance scoring.Performance
	Role        scoring.Role
	Breakdown   scoring.Breakdown
}

type TeamPlayerPoints struct {
	PlayerID   string
	PlayerName string
	TeamName   string
	Role       scoring.Role
	Played     bool
	Base       scoring.Points
	Points     scoring.Points
}

type TeamPoints struct {
	TeamID  string
	MatchID string
	UserID  string
	Total   scoring.Points
	Players []TeamPlayerPoints
}

// PointsService turns provider scorecards into fantasy points.
type PointsService struct {
	provider   MatchProvider
	engine     *scoring.Engine
	pointsRepo scoring.Repository
	teamRepo   team.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewPointsService(
	provider MatchProvider,
	engine *scoring.Engine,
	pointsRepo scoring.Repository,
	teamRepo team.Repository,
	logger *logging.Logger,
) *PointsService {
	if engine == nil {
		engine = scoring.DefaultEngine()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PointsService{
		provider:   provider,
		engine:     engine,
		pointsRepo: pointsRepo,
		teamRepo:   teamRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// MatchPlayerPoints scores every player on the match scorecard at base
// multiplier, persists the result and returns it ordered by points.
// When the provider is unavailable the last persisted snapshot is returned.
func (s *PointsService) MatchPlayerPoints(ctx context.Context, matchID string) ([]scoring.PlayerMatchPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.MatchPlayerPoints", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	performances, err := s.loadPerformances(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrDependencyUnavailable) {
			snapshot, repoErr := s.pointsRepo.ListMatchPoints(ctx, matchID)
			if repoErr == nil && len(snapshot) > 0 {
				s.logger.WarnContext(ctx, "scorecard unavailable, serving points snapshot", "match_id", matchID, "error", err)
				return snapshot, nil
			}
		}
		return nil, err
	}

	calculatedAt := s.now().UTC()
	out := make([]scoring.PlayerMatchPoints, 0, len(performances))
	for _, perf := range performances {
		breakdown, err := s.engine.Calculate(perf, scoring.RoleNone)
		if err != nil {
			s.logger.WarnContext(ctx, "skip invalid performance record",
				"match_id", matchID,
				"player_id", perf.PlayerID,
				"error", err,
			)
			continue
		}
		out = append(out, scoring.PlayerMatchPoints{
			MatchID:      matchID,
			PlayerID:     perf.PlayerID,
			PlayerName:   perf.PlayerName,
			TeamName:     perf.TeamName,
			Points:       breakdown.Total,
			Breakdown:    breakdown,
			CalculatedAt: calculatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	if err := s.pointsRepo.UpsertMatchPoints(ctx, out); err != nil {
		s.logger.WarnContext(ctx, "persist player match points failed", "match_id", matchID, "error", err)
	}
	return out, nil
}

func (s *PointsService) PlayerBreakdown(ctx context.Context, matchID, playerID string, role scoring.Role) (PlayerPointsDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.PlayerBreakdown")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	playerID = strings.TrimSpace(playerID)
	if matchID == "" || playerID == "" {
		return PlayerPointsDetail{}, fmt.Errorf("%w: match_id and player_id are required", ErrInvalidInput)
	}

	performances, err := s.loadPerformances(ctx, matchID)
	if err != nil {
		return PlayerPointsDetail{}, err
	}

	for _, perf := range performances {
		if perf.PlayerID != playerID {
			continue
		}
		breakdown, err := s.engine.Calculate(perf, role)
		if err != nil {
			if errors.Is(err, scoring.ErrUnknownRole) || errors.Is(err, scoring.ErrInvalidPerformance) {
				return PlayerPointsDetail{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return PlayerPointsDetail{}, err
		}
		return PlayerPointsDetail{
			MatchID:     matchID,
			Performance: perf,
			Role:        role,
			Breakdown:   breakdown,
		}, nil
	}

	return PlayerPointsDetail{}, fmt.Errorf("%w: player=%s has no record in match=%s", ErrNotFound, playerID, matchID)
}

// TeamPoints totals a user team. The captain and vice-captain multipliers
// apply to each player's whole base total.
func (s *PointsService) TeamPoints(ctx context.Context, userID, teamID string) (TeamPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.TeamPoints")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return TeamPoints{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamPoints{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamPoints{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if userID != "" && item.UserID != userID {
		return TeamPoints{}, fmt.Errorf("%w: team belongs to another user", ErrForbidden)
	}

	matchPoints, err := s.MatchPlayerPoints(ctx, item.MatchID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return TeamPoints{}, err
	}
	return s.scoreTeam(item, indexMatchPoints(matchPoints))
}

func (s *PointsService) scoreTeam(item team.UserTeam, byPlayer map[string]scoring.PlayerMatchPoints) (TeamPoints, error) {
	out := TeamPoints{
		TeamID:  item.ID,
		MatchID: item.MatchID,
		UserID:  item.UserID,
		Players: make([]TeamPlayerPoints, 0, len(item.PlayerIDs)),
	}

	for _, playerID := range item.PlayerIDs {
		role := scoring.RoleNone
		switch playerID {
		case item.CaptainID:
			role = scoring.RoleCaptain
		case item.ViceCaptainID:
			role = scoring.RoleViceCaptain
		}

		row := TeamPlayerPoints{PlayerID: playerID, Role: role}
		if pts, ok := byPlayer[playerID]; ok {
			total, err := s.engine.ApplyRole(pts.Breakdown.Base, role)
			if err != nil {
				return TeamPoints{}, err
			}
			row.PlayerName = pts.PlayerName
			row.TeamName = pts.TeamName
			row.Played = true
			row.Base = pts.Breakdown.Base
			row.Points = total
		}
		out.Total += row.Points
		out.Players = append(out.Players, row)
	}
	return out, nil
}

// loadPerformances fetches the scorecard and squad concurrently and fills in
// playing roles the scorecard does not carry. A missing squad is tolerated.
func (s *PointsService) loadPerformances(ctx context.Context, matchID string) ([]scoring.Performance, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("%w: cricket data provider is not configured", ErrDependencyUnavailable)
	}

	var (
		card  ExternalScorecard
		squad player.Squad
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		card, err = s.provider.GetScorecard(ctx, matchID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		squad, err = s.provider.GetSquad(ctx, matchID)
		if err != nil {
			s.logger.WarnContext(ctx, "fetch squad for playing roles failed", "match_id", matchID, "error", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	index := squad.Index()
	out := make([]scoring.Performance, 0, len(card.Performances))
	for _, perf := range card.Performances {
		if known, ok := index[perf.PlayerID]; ok {
			if perf.PlayingRole == scoring.PlayingRoleUnknown {
				perf.PlayingRole = known.PlayingRole
			}
			if perf.PlayerName == "" {
				perf.PlayerName = known.Name
			}
			if perf.TeamName == "" {
				perf.TeamName = known.TeamName
			}
		}
		out = append(out, perf)
	}
	return out, nil
}

func indexMatchPoints(items []scoring.PlayerMatchPoints) map[string]scoring.PlayerMatchPoints {
	out := make(map[string]scoring.PlayerMatchPoints, len(items))
	for _, item := range items {
		out[item.PlayerID] = item
	}
	return out
}
