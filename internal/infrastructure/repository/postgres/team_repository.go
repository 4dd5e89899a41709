package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type UserTeamRepository struct {
	db *sqlx.DB
}

func NewUserTeamRepository(db *sqlx.DB) *UserTeamRepository {
	return &UserTeamRepository{db: db}
}

func (r *UserTeamRepository) Create(ctx context.Context, item team.UserTeam) error {
	insertModel := userTeamInsertModel{
		PublicID:      item.ID,
		UserID:        item.UserID,
		MatchID:       item.MatchID,
		Name:          item.Name,
		PlayerIDs:     pq.StringArray(item.PlayerIDs),
		CaptainID:     item.CaptainID,
		ViceCaptainID: item.ViceCaptainID,
	}
	query, args, err := qb.InsertModel("user_teams", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create user team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create user team: %w", err)
	}

	return nil
}

func (r *UserTeamRepository) Update(ctx context.Context, item team.UserTeam) error {
	query, args, err := qb.Update("user_teams").
		Set("name", item.Name).
		Set("player_ids", pq.StringArray(item.PlayerIDs)).
		Set("captain_player_id", item.CaptainID).
		Set("vice_captain_player_id", item.ViceCaptainID).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", item.ID),
			qb.Eq("user_id", item.UserID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update user team query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user team: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update user team: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update user team: not found")
	}

	return nil
}

func (r *UserTeamRepository) GetByID(ctx context.Context, teamID string) (team.UserTeam, bool, error) {
	query, args, err := userTeamBaseSelectBuilder().
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.UserTeam{}, false, fmt.Errorf("build get user team query: %w", err)
	}

	var row userTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.UserTeam{}, false, nil
		}
		return team.UserTeam{}, false, fmt.Errorf("get user team: %w", err)
	}

	return userTeamFromRow(row), true, nil
}

func (r *UserTeamRepository) ListByUser(ctx context.Context, userID string) ([]team.UserTeam, error) {
	return r.list(ctx, "list user teams by user",
		qb.Eq("user_id", userID),
		qb.IsNull("deleted_at"),
	)
}

func (r *UserTeamRepository) ListByMatch(ctx context.Context, matchID string) ([]team.UserTeam, error) {
	return r.list(ctx, "list user teams by match",
		qb.Eq("match_public_id", matchID),
		qb.IsNull("deleted_at"),
	)
}

func (r *UserTeamRepository) ListByIDs(ctx context.Context, teamIDs []string) ([]team.UserTeam, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, "list user teams by ids",
		qb.In("public_id", stringSliceToAny(teamIDs)),
		qb.IsNull("deleted_at"),
	)
}

func (r *UserTeamRepository) list(ctx context.Context, op string, conditions ...qb.Condition) ([]team.UserTeam, error) {
	query, args, err := userTeamBaseSelectBuilder().
		Where(conditions...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []userTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]team.UserTeam, 0, len(rows))
	for _, row := range rows {
		out = append(out, userTeamFromRow(row))
	}
	return out, nil
}

func userTeamFromRow(row userTeamTableModel) team.UserTeam {
	return team.UserTeam{
		ID:            row.PublicID,
		UserID:        row.UserID,
		MatchID:       row.MatchID,
		Name:          row.Name,
		PlayerIDs:     append([]string(nil), row.PlayerIDs...),
		CaptainID:     row.CaptainID,
		ViceCaptainID: row.ViceCaptainID,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func userTeamBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("user_teams")
}
