package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type PointsRepository struct {
	db *sqlx.DB
}

func NewPointsRepository(db *sqlx.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

func (r *PointsRepository) UpsertMatchPoints(ctx context.Context, items []scoring.PlayerMatchPoints) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]playerMatchPointsInsertModel, 0, len(items))
	for _, item := range items {
		breakdown, err := encodeJSON(item.Breakdown)
		if err != nil {
			return fmt.Errorf("encode breakdown %s/%s: %w", item.MatchID, item.PlayerID, err)
		}
		calculatedAt := item.CalculatedAt
		if calculatedAt.IsZero() {
			calculatedAt = time.Now()
		}
		rows = append(rows, playerMatchPointsInsertModel{
			MatchID:      item.MatchID,
			PlayerID:     item.PlayerID,
			PlayerName:   item.PlayerName,
			TeamName:     item.TeamName,
			Points:       item.Points,
			Breakdown:    breakdown,
			CalculatedAt: calculatedAt.UTC(),
		})
	}

	query, args, err := qb.InsertModels("player_match_points", rows, `ON CONFLICT (match_public_id, player_public_id)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    team_name = EXCLUDED.team_name,
    points = EXCLUDED.points,
    breakdown = EXCLUDED.breakdown,
    calculated_at = EXCLUDED.calculated_at`)
	if err != nil {
		return fmt.Errorf("build upsert player match points query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player match points: %w", err)
	}

	return nil
}

func (r *PointsRepository) ListMatchPoints(ctx context.Context, matchID string) ([]scoring.PlayerMatchPoints, error) {
	query, args, err := qb.Select("*").From("player_match_points").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("points DESC", "player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player match points query: %w", err)
	}

	var rows []playerMatchPointsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player match points: %w", err)
	}

	out := make([]scoring.PlayerMatchPoints, 0, len(rows))
	for _, row := range rows {
		var breakdown scoring.Breakdown
		if err := decodeJSON(row.Breakdown, &breakdown); err != nil {
			return nil, fmt.Errorf("decode breakdown %s/%s: %w", row.MatchID, row.PlayerID, err)
		}
		out = append(out, scoring.PlayerMatchPoints{
			MatchID:      row.MatchID,
			PlayerID:     row.PlayerID,
			PlayerName:   row.PlayerName,
			TeamName:     row.TeamName,
			Points:       row.Points,
			Breakdown:    breakdown,
			CalculatedAt: row.CalculatedAt,
		})
	}
	return out, nil
}
