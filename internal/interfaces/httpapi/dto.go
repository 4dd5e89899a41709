package httpapi

import (
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/contest"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

type saveTeamRequest struct {
	MatchID       string   `json:"match_id" validate:"required"`
	Name          string   `json:"name" validate:"omitempty,max=100"`
	PlayerIDs     []string `json:"player_ids" validate:"required,len=11,unique,dive,required"`
	CaptainID     string   `json:"captain_id" validate:"required"`
	ViceCaptainID string   `json:"vice_captain_id" validate:"required,nefield=CaptainID"`
}

type updateTeamRequest struct {
	Name          string   `json:"name" validate:"omitempty,max=100"`
	PlayerIDs     []string `json:"player_ids" validate:"required,len=11,unique,dive,required"`
	CaptainID     string   `json:"captain_id" validate:"required"`
	ViceCaptainID string   `json:"vice_captain_id" validate:"required,nefield=CaptainID"`
}

type createContestRequest struct {
	MatchID  string `json:"match_id" validate:"required"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	Capacity int    `json:"capacity" validate:"omitempty,min=1,max=100000"`
}

type joinContestRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

type internalJobRequest struct {
	Force      bool   `json:"force"`
	DispatchID string `json:"dispatch_id"`
}

type teamInfoDTO struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

type inningsDTO struct {
	Label   string  `json:"label"`
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Overs   float64 `json:"overs"`
}

type matchDTO struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	MatchType  string        `json:"match_type,omitempty"`
	Status     string        `json:"status,omitempty"`
	Venue      string        `json:"venue,omitempty"`
	StartAt    string        `json:"start_at,omitempty"`
	Bucket     string        `json:"bucket,omitempty"`
	HasStarted bool          `json:"has_started"`
	HasEnded   bool          `json:"has_ended"`
	Teams      []teamInfoDTO `json:"teams"`
	Innings    []inningsDTO  `json:"innings,omitempty"`
	SyncedAt   string        `json:"synced_at,omitempty"`
}

type performanceDTO struct {
	PlayerID        string  `json:"player_id"`
	PlayerName      string  `json:"player_name,omitempty"`
	TeamName        string  `json:"team_name,omitempty"`
	PlayingRole     string  `json:"playing_role,omitempty"`
	Runs            int     `json:"runs"`
	BallsFaced      int     `json:"balls_faced"`
	Fours           int     `json:"fours"`
	Sixes           int     `json:"sixes"`
	Dismissed       bool    `json:"dismissed"`
	Wickets         int     `json:"wickets"`
	Overs           float64 `json:"overs"`
	RunsConceded    int     `json:"runs_conceded"`
	Maidens         int     `json:"maidens"`
	Catches         int     `json:"catches"`
	Stumpings       int     `json:"stumpings"`
	RunOutsDirect   int     `json:"run_outs_direct"`
	RunOutsAssisted int     `json:"run_outs_assisted"`
}

type scorecardDTO struct {
	Match        matchDTO         `json:"match"`
	Performances []performanceDTO `json:"performances"`
}

type playerDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TeamName     string `json:"team_name,omitempty"`
	Country      string `json:"country,omitempty"`
	PlayingRole  string `json:"playing_role,omitempty"`
	BattingStyle string `json:"batting_style,omitempty"`
	BowlingStyle string `json:"bowling_style,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

type squadTeamDTO struct {
	TeamName  string      `json:"team_name"`
	ShortName string      `json:"short_name,omitempty"`
	ImageURL  string      `json:"image_url,omitempty"`
	Players   []playerDTO `json:"players"`
}

type squadDTO struct {
	MatchID string         `json:"match_id"`
	Teams   []squadTeamDTO `json:"teams"`
}

type playerPointsDTO struct {
	PlayerID   string            `json:"player_id"`
	PlayerName string            `json:"player_name,omitempty"`
	TeamName   string            `json:"team_name,omitempty"`
	Points     scoring.Points    `json:"points"`
	Breakdown  scoring.Breakdown `json:"breakdown"`
}

type playerBreakdownDTO struct {
	MatchID    string            `json:"match_id"`
	PlayerID   string            `json:"player_id"`
	PlayerName string            `json:"player_name,omitempty"`
	Role       string            `json:"role,omitempty"`
	Points     scoring.Points    `json:"points"`
	Breakdown  scoring.Breakdown `json:"breakdown"`
}

type userTeamDTO struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id"`
	MatchID       string   `json:"match_id"`
	Name          string   `json:"name"`
	PlayerIDs     []string `json:"player_ids"`
	CaptainID     string   `json:"captain_id"`
	ViceCaptainID string   `json:"vice_captain_id"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type teamPlayerPointsDTO struct {
	PlayerID   string         `json:"player_id"`
	PlayerName string         `json:"player_name,omitempty"`
	TeamName   string         `json:"team_name,omitempty"`
	Role       string         `json:"role,omitempty"`
	Played     bool           `json:"played"`
	Base       scoring.Points `json:"base"`
	Points     scoring.Points `json:"points"`
}

type teamPointsDTO struct {
	TeamID  string                `json:"team_id"`
	MatchID string                `json:"match_id"`
	Total   scoring.Points        `json:"total"`
	Players []teamPlayerPointsDTO `json:"players"`
}

type contestDTO struct {
	ID         string `json:"id"`
	MatchID    string `json:"match_id"`
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	EntryCount int    `json:"entry_count"`
	SpotsLeft  int    `json:"spots_left"`
	CreatedBy  string `json:"created_by,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type contestEntryDTO struct {
	ID        string         `json:"id"`
	ContestID string         `json:"contest_id"`
	UserID    string         `json:"user_id"`
	TeamID    string         `json:"team_id"`
	Points    scoring.Points `json:"points"`
	Rank      int            `json:"rank"`
	JoinedAt  string         `json:"joined_at"`
}

type leaderboardRowDTO struct {
	Rank     int            `json:"rank"`
	EntryID  string         `json:"entry_id"`
	UserID   string         `json:"user_id"`
	TeamID   string         `json:"team_id"`
	TeamName string         `json:"team_name,omitempty"`
	Points   scoring.Points `json:"points"`
}

type leaderboardDTO struct {
	Contest contestDTO          `json:"contest"`
	Rows    []leaderboardRowDTO `json:"rows"`
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func matchToDTO(v match.Match, bucket match.Bucket) matchDTO {
	out := matchDTO{
		ID:         v.ID,
		Name:       v.Name,
		MatchType:  v.MatchType,
		Status:     v.Status,
		Venue:      v.Venue,
		StartAt:    formatTime(v.StartAt),
		Bucket:     string(bucket),
		HasStarted: v.HasStarted,
		HasEnded:   v.HasEnded,
		Teams:      make([]teamInfoDTO, 0, len(v.Teams)),
		Innings:    make([]inningsDTO, 0, len(v.Innings)),
		SyncedAt:   formatTime(v.SyncedAt),
	}
	for _, t := range v.Teams {
		if t.Name == "" {
			continue
		}
		out.Teams = append(out.Teams, teamInfoDTO{Name: t.Name, ShortName: t.ShortName, ImageURL: t.ImageURL})
	}
	for _, inn := range v.Innings {
		out.Innings = append(out.Innings, inningsDTO{Label: inn.Label, Runs: inn.Runs, Wickets: inn.Wickets, Overs: inn.Overs})
	}
	return out
}

func matchesToDTO(items []match.Match, bucket match.Bucket) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item, bucket))
	}
	return out
}

func performanceToDTO(v scoring.Performance) performanceDTO {
	return performanceDTO{
		PlayerID:        v.PlayerID,
		PlayerName:      v.PlayerName,
		TeamName:        v.TeamName,
		PlayingRole:     string(v.PlayingRole),
		Runs:            v.Runs,
		BallsFaced:      v.BallsFaced,
		Fours:           v.Fours,
		Sixes:           v.Sixes,
		Dismissed:       v.Dismissed,
		Wickets:         v.Wickets,
		Overs:           v.Overs,
		RunsConceded:    v.RunsConceded,
		Maidens:         v.Maidens,
		Catches:         v.Catches,
		Stumpings:       v.Stumpings,
		RunOutsDirect:   v.RunOutsDirect,
		RunOutsAssisted: v.RunOutsAssisted,
	}
}

func scorecardToDTO(v usecase.ExternalScorecard, bucket match.Bucket) scorecardDTO {
	out := scorecardDTO{
		Match:        matchToDTO(v.Match, bucket),
		Performances: make([]performanceDTO, 0, len(v.Performances)),
	}
	for _, perf := range v.Performances {
		out.Performances = append(out.Performances, performanceToDTO(perf))
	}
	return out
}

func squadToDTO(v player.Squad) squadDTO {
	out := squadDTO{MatchID: v.MatchID, Teams: make([]squadTeamDTO, 0, len(v.Teams))}
	for _, t := range v.Teams {
		side := squadTeamDTO{
			TeamName:  t.TeamName,
			ShortName: t.ShortName,
			ImageURL:  t.ImageURL,
			Players:   make([]playerDTO, 0, len(t.Players)),
		}
		for _, p := range t.Players {
			side.Players = append(side.Players, playerDTO{
				ID:           p.ID,
				Name:         p.Name,
				TeamName:     p.TeamName,
				Country:      p.Country,
				PlayingRole:  string(p.PlayingRole),
				BattingStyle: p.BattingStyle,
				BowlingStyle: p.BowlingStyle,
				ImageURL:     p.ImageURL,
			})
		}
		out.Teams = append(out.Teams, side)
	}
	return out
}

func playerPointsToDTO(items []scoring.PlayerMatchPoints) []playerPointsDTO {
	out := make([]playerPointsDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerPointsDTO{
			PlayerID:   item.PlayerID,
			PlayerName: item.PlayerName,
			TeamName:   item.TeamName,
			Points:     item.Points,
			Breakdown:  item.Breakdown,
		})
	}
	return out
}

func playerBreakdownToDTO(v usecase.PlayerPointsDetail) playerBreakdownDTO {
	return playerBreakdownDTO{
		MatchID:    v.MatchID,
		PlayerID:   v.Performance.PlayerID,
		PlayerName: v.Performance.PlayerName,
		Role:       string(v.Role),
		Points:     v.Breakdown.Total,
		Breakdown:  v.Breakdown,
	}
}

func userTeamToDTO(v team.UserTeam) userTeamDTO {
	return userTeamDTO{
		ID:            v.ID,
		UserID:        v.UserID,
		MatchID:       v.MatchID,
		Name:          v.Name,
		PlayerIDs:     append([]string(nil), v.PlayerIDs...),
		CaptainID:     v.CaptainID,
		ViceCaptainID: v.ViceCaptainID,
		CreatedAt:     formatTime(v.CreatedAt),
		UpdatedAt:     formatTime(v.UpdatedAt),
	}
}

func teamPointsToDTO(v usecase.TeamPoints) teamPointsDTO {
	out := teamPointsDTO{
		TeamID:  v.TeamID,
		MatchID: v.MatchID,
		Total:   v.Total,
		Players: make([]teamPlayerPointsDTO, 0, len(v.Players)),
	}
	for _, p := range v.Players {
		out.Players = append(out.Players, teamPlayerPointsDTO{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			TeamName:   p.TeamName,
			Role:       string(p.Role),
			Played:     p.Played,
			Base:       p.Base,
			Points:     p.Points,
		})
	}
	return out
}

func contestToDTO(v contest.Contest) contestDTO {
	return contestDTO{
		ID:         v.ID,
		MatchID:    v.MatchID,
		Name:       v.Name,
		Capacity:   v.Capacity,
		EntryCount: v.EntryCount,
		SpotsLeft:  v.SpotsLeft(),
		CreatedBy:  v.CreatedBy,
		CreatedAt:  formatTime(v.CreatedAt),
	}
}

func contestEntryToDTO(v contest.Entry) contestEntryDTO {
	return contestEntryDTO{
		ID:        v.ID,
		ContestID: v.ContestID,
		UserID:    v.UserID,
		TeamID:    v.TeamID,
		Points:    v.Points,
		Rank:      v.Rank,
		JoinedAt:  formatTime(v.JoinedAt),
	}
}

func leaderboardToDTO(v usecase.Leaderboard) leaderboardDTO {
	out := leaderboardDTO{
		Contest: contestToDTO(v.Contest),
		Rows:    make([]leaderboardRowDTO, 0, len(v.Rows)),
	}
	for _, row := range v.Rows {
		out.Rows = append(out.Rows, leaderboardRowDTO{
			Rank:     row.Rank,
			EntryID:  row.EntryID,
			UserID:   row.UserID,
			TeamID:   row.TeamID,
			TeamName: row.TeamName,
			Points:   row.Points,
		})
	}
	return out
}
