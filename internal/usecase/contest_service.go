package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/contest"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/user"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

const defaultContestCapacity = 100

type CreateContestInput struct {
	MatchID  string
	Name     string
	Capacity int
}

type JoinContestInput struct {
	UserID    string
	ContestID string
	TeamID    string
}

type LeaderboardRow struct {
	Rank     int
	EntryID  string
	UserID   string
	TeamID   string
	TeamName string
	Points   scoring.Points
}

type Leaderboard struct {
	Contest contest.Contest
	Rows    []LeaderboardRow
}

type ContestRecalcResult struct {
	ContestID   string `json:"contest_id"`
	MatchID     string `json:"match_id"`
	EntryCount  int    `json:"entry_count"`
	UpdateCount int    `json:"update_count"`
}

// teamScorer computes a user team's total from a match points table.
type teamScorer interface {
	MatchPlayerPoints(ctx context.Context, matchID string) ([]scoring.PlayerMatchPoints, error)
	scoreTeam(item team.UserTeam, byPlayer map[string]scoring.PlayerMatchPoints) (TeamPoints, error)
}

type ContestService struct {
	contestRepo contest.Repository
	teamRepo    team.Repository
	catalog     MatchCatalog
	scorer      teamScorer
	idGen       id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewContestService(
	contestRepo contest.Repository,
	teamRepo team.Repository,
	catalog MatchCatalog,
	points *PointsService,
	idGen id.Generator,
	logger *logging.Logger,
) *ContestService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	svc := &ContestService{
		contestRepo: contestRepo,
		teamRepo:    teamRepo,
		catalog:     catalog,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
	if points != nil {
		svc.scorer = points
	}
	return svc
}

// Create opens a contest on a match that has not finished. Admin only.
func (s *ContestService) Create(ctx context.Context, principal user.Principal, input CreateContestInput) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.Create")
	defer span.End()

	if err := principal.Validate(); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !principal.IsAdmin() {
		return contest.Contest{}, fmt.Errorf("%w: only admins can create contests", ErrForbidden)
	}

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.Name = strings.TrimSpace(input.Name)
	if input.Capacity == 0 {
		input.Capacity = defaultContestCapacity
	}
	if input.MatchID == "" {
		return contest.Contest{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	item, bucket, ok, err := s.catalog.Bucket(ctx, input.MatchID)
	if err != nil {
		return contest.Contest{}, err
	}
	if !ok || bucket == match.BucketCompleted {
		return contest.Contest{}, fmt.Errorf("%w: new contest on match=%s", ErrSelectionClosed, input.MatchID)
	}

	contestID, err := s.idGen.NewID()
	if err != nil {
		return contest.Contest{}, fmt.Errorf("generate contest id: %w", err)
	}
	if input.Name == "" {
		input.Name = item.Name + " contest"
	}
	now := s.now().UTC()
	out := contest.Contest{
		ID:        contestID,
		MatchID:   input.MatchID,
		Name:      input.Name,
		Capacity:  input.Capacity,
		CreatedBy: principal.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := out.Validate(); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.contestRepo.Create(ctx, out); err != nil {
		return contest.Contest{}, fmt.Errorf("create contest: %w", err)
	}
	return out, nil
}

func (s *ContestService) Get(ctx context.Context, contestID string) (contest.Contest, error) {
	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}

	item, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return contest.Contest{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}
	return item, nil
}

func (s *ContestService) ListByMatch(ctx context.Context, matchID string) ([]contest.Contest, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	items, err := s.contestRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list contests by match: %w", err)
	}
	return items, nil
}

// Join enters one of the caller's teams into a contest. Each user joins a
// contest at most once, the team must be for the contest's match and the
// match must not have started.
func (s *ContestService) Join(ctx context.Context, input JoinContestInput) (contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.Join")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.UserID == "" {
		return contest.Entry{}, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}
	if input.TeamID == "" {
		return contest.Entry{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	item, err := s.Get(ctx, input.ContestID)
	if err != nil {
		return contest.Entry{}, err
	}
	if item.IsFull() {
		return contest.Entry{}, fmt.Errorf("%w: %w", ErrConflict, contest.ErrContestFull)
	}

	userTeam, exists, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return contest.Entry{}, fmt.Errorf("%w: team=%s", ErrNotFound, input.TeamID)
	}
	if userTeam.UserID != input.UserID {
		return contest.Entry{}, fmt.Errorf("%w: team belongs to another user", ErrForbidden)
	}
	if userTeam.MatchID != item.MatchID {
		return contest.Entry{}, fmt.Errorf("%w: %w", ErrInvalidInput, contest.ErrTeamMismatch)
	}

	_, bucket, ok, err := s.catalog.Bucket(ctx, item.MatchID)
	if err != nil {
		return contest.Entry{}, err
	}
	if !ok || bucket != match.BucketUpcoming {
		return contest.Entry{}, fmt.Errorf("%w: contest entry for match=%s", ErrSelectionClosed, item.MatchID)
	}

	entryID, err := s.idGen.NewID()
	if err != nil {
		return contest.Entry{}, fmt.Errorf("generate entry id: %w", err)
	}
	now := s.now().UTC()
	entry := contest.Entry{
		ID:        entryID,
		ContestID: item.ID,
		UserID:    input.UserID,
		TeamID:    userTeam.ID,
		JoinedAt:  now,
		UpdatedAt: now,
	}
	if err := s.contestRepo.CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, contest.ErrContestFull) || errors.Is(err, contest.ErrAlreadyJoined) {
			return contest.Entry{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return contest.Entry{}, fmt.Errorf("create contest entry: %w", err)
	}
	return entry, nil
}

// Leaderboard returns entries ranked by their last computed points.
func (s *ContestService) Leaderboard(ctx context.Context, contestID string) (Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.Leaderboard")
	defer span.End()

	item, err := s.Get(ctx, contestID)
	if err != nil {
		return Leaderboard{}, err
	}

	entries, err := s.contestRepo.ListEntries(ctx, item.ID)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("list contest entries: %w", err)
	}
	teamNames, err := s.teamNames(ctx, entries)
	if err != nil {
		return Leaderboard{}, err
	}

	ranked := contest.RankEntries(entries)
	rows := make([]LeaderboardRow, 0, len(ranked))
	for _, entry := range ranked {
		rows = append(rows, LeaderboardRow{
			Rank:     entry.Rank,
			EntryID:  entry.ID,
			UserID:   entry.UserID,
			TeamID:   entry.TeamID,
			TeamName: teamNames[entry.TeamID],
			Points:   entry.Points,
		})
	}
	return Leaderboard{Contest: item, Rows: rows}, nil
}

// RecalculateContest rescores every entry from the current match points and
// stores the new totals and ranks.
func (s *ContestService) RecalculateContest(ctx context.Context, contestID string) (ContestRecalcResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.RecalculateContest", contestAttr(contestID))
	defer span.End()

	if s.scorer == nil {
		return ContestRecalcResult{}, fmt.Errorf("%w: points service is not configured", ErrDependencyUnavailable)
	}

	item, err := s.Get(ctx, contestID)
	if err != nil {
		return ContestRecalcResult{}, err
	}
	entries, err := s.contestRepo.ListEntries(ctx, item.ID)
	if err != nil {
		return ContestRecalcResult{}, fmt.Errorf("list contest entries: %w", err)
	}
	result := ContestRecalcResult{ContestID: item.ID, MatchID: item.MatchID, EntryCount: len(entries)}
	if len(entries) == 0 {
		return result, nil
	}

	matchPoints, err := s.scorer.MatchPlayerPoints(ctx, item.MatchID)
	if err != nil {
		return ContestRecalcResult{}, fmt.Errorf("compute match points: %w", err)
	}
	byPlayer := indexMatchPoints(matchPoints)

	teamIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		teamIDs = append(teamIDs, entry.TeamID)
	}
	teams, err := s.teamRepo.ListByIDs(ctx, teamIDs)
	if err != nil {
		return ContestRecalcResult{}, fmt.Errorf("list contest teams: %w", err)
	}
	teamByID := make(map[string]team.UserTeam, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	now := s.now().UTC()
	for idx := range entries {
		t, ok := teamByID[entries[idx].TeamID]
		if !ok {
			s.logger.WarnContext(ctx, "contest entry team missing", "contest_id", item.ID, "team_id", entries[idx].TeamID)
			entries[idx].Points = 0
			continue
		}
		scored, err := s.scorer.scoreTeam(t, byPlayer)
		if err != nil {
			return ContestRecalcResult{}, fmt.Errorf("score team=%s: %w", t.ID, err)
		}
		entries[idx].Points = scored.Total
		entries[idx].UpdatedAt = now
	}

	ranked := contest.RankEntries(entries)
	if err := s.contestRepo.UpdateEntryScores(ctx, item.ID, ranked); err != nil {
		return ContestRecalcResult{}, fmt.Errorf("update contest entry scores: %w", err)
	}
	result.UpdateCount = len(ranked)
	return result, nil
}

func (s *ContestService) teamNames(ctx context.Context, entries []contest.Entry) (map[string]string, error) {
	out := make(map[string]string, len(entries))
	if len(entries) == 0 {
		return out, nil
	}

	teamIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		teamIDs = append(teamIDs, entry.TeamID)
	}
	teams, err := s.teamRepo.ListByIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("list contest teams: %w", err)
	}
	for _, t := range teams {
		out[t.ID] = t.Name
	}
	return out, nil
}
