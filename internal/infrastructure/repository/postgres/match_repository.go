package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]matchInsertModel, 0, len(items))
	for _, item := range items {
		row, err := matchToInsertModel(item)
		if err != nil {
			return fmt.Errorf("encode match %s: %w", item.ID, err)
		}
		rows = append(rows, row)
	}

	query, args, err := qb.InsertModels("matches", rows, `ON CONFLICT (public_id)
DO UPDATE SET
    name = EXCLUDED.name,
    match_type = EXCLUDED.match_type,
    status_text = EXCLUDED.status_text,
    venue = EXCLUDED.venue,
    start_at = EXCLUDED.start_at,
    has_started = EXCLUDED.has_started,
    has_ended = EXCLUDED.has_ended,
    declared_state = EXCLUDED.declared_state,
    teams = EXCLUDED.teams,
    innings = EXCLUDED.innings,
    synced_at = EXCLUDED.synced_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert matches query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert matches: %w", err)
	}

	return nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		OrderBy("start_at NULLS LAST", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := matchFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode match %s: %w", row.PublicID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	item, err := matchFromRow(row)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("decode match %s: %w", row.PublicID, err)
	}
	return item, true, nil
}

func matchToInsertModel(item match.Match) (matchInsertModel, error) {
	teams := make([]matchTeamColumn, 0, len(item.Teams))
	for _, info := range item.Teams {
		teams = append(teams, matchTeamColumn{Name: info.Name, ShortName: info.ShortName, ImageURL: info.ImageURL})
	}
	innings := make([]matchInningsColumn, 0, len(item.Innings))
	for _, inn := range item.Innings {
		innings = append(innings, matchInningsColumn{Label: inn.Label, Runs: inn.Runs, Wickets: inn.Wickets, Overs: inn.Overs})
	}

	teamsJSON, err := encodeJSON(teams)
	if err != nil {
		return matchInsertModel{}, err
	}
	inningsJSON, err := encodeJSON(innings)
	if err != nil {
		return matchInsertModel{}, err
	}

	syncedAt := item.SyncedAt
	if syncedAt.IsZero() {
		syncedAt = time.Now().UTC()
	}

	return matchInsertModel{
		PublicID:      item.ID,
		Name:          item.Name,
		MatchType:     item.MatchType,
		StatusText:    item.Status,
		Venue:         item.Venue,
		StartAt:       nullableTime(item.StartAt),
		HasStarted:    item.HasStarted,
		HasEnded:      item.HasEnded,
		DeclaredState: string(item.DeclaredState),
		Teams:         teamsJSON,
		Innings:       inningsJSON,
		SyncedAt:      syncedAt.UTC(),
	}, nil
}

func matchFromRow(row matchTableModel) (match.Match, error) {
	var teams []matchTeamColumn
	if err := decodeJSON(row.Teams, &teams); err != nil {
		return match.Match{}, fmt.Errorf("teams: %w", err)
	}
	var innings []matchInningsColumn
	if err := decodeJSON(row.Innings, &innings); err != nil {
		return match.Match{}, fmt.Errorf("innings: %w", err)
	}

	out := match.Match{
		ID:            row.PublicID,
		Name:          row.Name,
		MatchType:     row.MatchType,
		Status:        row.StatusText,
		Venue:         row.Venue,
		HasStarted:    row.HasStarted,
		HasEnded:      row.HasEnded,
		DeclaredState: match.ParseState(row.DeclaredState),
		SyncedAt:      row.SyncedAt,
	}
	if row.StartAt.Valid {
		out.StartAt = row.StartAt.Time.UTC()
	}
	for i := 0; i < len(teams) && i < len(out.Teams); i++ {
		out.Teams[i] = match.TeamInfo{Name: teams[i].Name, ShortName: teams[i].ShortName, ImageURL: teams[i].ImageURL}
	}
	if len(innings) > 0 {
		out.Innings = make([]match.Innings, 0, len(innings))
		for _, inn := range innings {
			out.Innings = append(out.Innings, match.Innings{Label: inn.Label, Runs: inn.Runs, Wickets: inn.Wickets, Overs: inn.Overs})
		}
	}
	return out, nil
}
