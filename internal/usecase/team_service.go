package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/id"
)

// MatchCatalog resolves matches and squads for team and contest rules.
type MatchCatalog interface {
	Bucket(ctx context.Context, matchID string) (match.Match, match.Bucket, bool, error)
	GetSquad(ctx context.Context, matchID string) (player.Squad, error)
}

type SaveTeamInput struct {
	UserID        string
	TeamID        string
	MatchID       string
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
}

type TeamService struct {
	teamRepo team.Repository
	catalog  MatchCatalog
	idGen    id.Generator
	now      func() time.Time
}

func NewTeamService(teamRepo team.Repository, catalog MatchCatalog, idGen id.Generator) *TeamService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &TeamService{
		teamRepo: teamRepo,
		catalog:  catalog,
		idGen:    idGen,
		now:      time.Now,
	}
}

func (s *TeamService) Create(ctx context.Context, input SaveTeamInput) (team.UserTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	input = normalizeSaveTeamInput(input)
	if input.UserID == "" {
		return team.UserTeam{}, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}
	if input.MatchID == "" {
		return team.UserTeam{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if err := s.validatePicks(ctx, input.MatchID, input); err != nil {
		return team.UserTeam{}, err
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.UserTeam{}, fmt.Errorf("generate team id: %w", err)
	}
	now := s.now().UTC()
	item := team.UserTeam{
		ID:            teamID,
		UserID:        input.UserID,
		MatchID:       input.MatchID,
		Name:          input.Name,
		PlayerIDs:     input.PlayerIDs,
		CaptainID:     input.CaptainID,
		ViceCaptainID: input.ViceCaptainID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if item.Name == "" {
		item.Name = "Team " + id.Short(teamID)
	}
	if err := item.ValidateBasic(); err != nil {
		return team.UserTeam{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Create(ctx, item); err != nil {
		return team.UserTeam{}, fmt.Errorf("create team: %w", err)
	}
	return item, nil
}

// Update replaces a team's picks. Teams are editable only by their owner and
// only while the match is upcoming.
func (s *TeamService) Update(ctx context.Context, input SaveTeamInput) (team.UserTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	input = normalizeSaveTeamInput(input)
	current, err := s.Get(ctx, input.UserID, input.TeamID)
	if err != nil {
		return team.UserTeam{}, err
	}
	if err := s.validatePicks(ctx, current.MatchID, input); err != nil {
		return team.UserTeam{}, err
	}

	current.PlayerIDs = input.PlayerIDs
	current.CaptainID = input.CaptainID
	current.ViceCaptainID = input.ViceCaptainID
	if input.Name != "" {
		current.Name = input.Name
	}
	current.UpdatedAt = s.now().UTC()
	if err := current.ValidateBasic(); err != nil {
		return team.UserTeam{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Update(ctx, current); err != nil {
		return team.UserTeam{}, fmt.Errorf("update team: %w", err)
	}
	return current, nil
}

func (s *TeamService) Get(ctx context.Context, userID, teamID string) (team.UserTeam, error) {
	userID = strings.TrimSpace(userID)
	teamID = strings.TrimSpace(teamID)
	if userID == "" {
		return team.UserTeam{}, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}
	if teamID == "" {
		return team.UserTeam{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.UserTeam{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.UserTeam{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if item.UserID != userID {
		return team.UserTeam{}, fmt.Errorf("%w: team belongs to another user", ErrForbidden)
	}
	return item, nil
}

func (s *TeamService) ListMine(ctx context.Context, userID string) ([]team.UserTeam, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}

	items, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams by user: %w", err)
	}
	return items, nil
}

func (s *TeamService) ListByMatch(ctx context.Context, matchID string) ([]team.UserTeam, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	items, err := s.teamRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list teams by match: %w", err)
	}
	return items, nil
}

func (s *TeamService) validatePicks(ctx context.Context, matchID string, input SaveTeamInput) error {
	if err := team.ValidateSelection(input.PlayerIDs, input.CaptainID, input.ViceCaptainID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, bucket, ok, err := s.catalog.Bucket(ctx, matchID)
	if err != nil {
		return err
	}
	if !ok || bucket != match.BucketUpcoming {
		return fmt.Errorf("%w: team selection for match=%s", ErrSelectionClosed, matchID)
	}

	squad, err := s.catalog.GetSquad(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load squad: %w", err)
	}
	if missing := squad.Missing(input.PlayerIDs); len(missing) > 0 {
		return fmt.Errorf("%w: players not in match squad: %s", ErrInvalidInput, strings.Join(missing, ","))
	}
	return nil
}

func normalizeSaveTeamInput(input SaveTeamInput) SaveTeamInput {
	input.UserID = strings.TrimSpace(input.UserID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.MatchID = strings.TrimSpace(input.MatchID)
	input.Name = strings.TrimSpace(input.Name)
	input.CaptainID = strings.TrimSpace(input.CaptainID)
	input.ViceCaptainID = strings.TrimSpace(input.ViceCaptainID)

	ids := make([]string, 0, len(input.PlayerIDs))
	for _, playerID := range input.PlayerIDs {
		ids = append(ids, strings.TrimSpace(playerID))
	}
	input.PlayerIDs = ids
	return input
}
