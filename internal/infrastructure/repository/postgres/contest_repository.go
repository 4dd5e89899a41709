package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/contest"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

const contestEntryUserConstraint = "uq_contest_entries_user"

type ContestRepository struct {
	db *sqlx.DB
}

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) Create(ctx context.Context, item contest.Contest) error {
	insertModel := contestInsertModel{
		PublicID:  item.ID,
		MatchID:   item.MatchID,
		Name:      item.Name,
		Capacity:  item.Capacity,
		CreatedBy: item.CreatedBy,
	}
	query, args, err := qb.InsertModel("contests", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create contest query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create contest: %w", err)
	}

	return nil
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	query, args, err := qb.Select("*").From("contests").
		Where(
			qb.Eq("public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return contest.Contest{}, false, fmt.Errorf("build get contest query: %w", err)
	}

	var row contestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Contest{}, false, nil
		}
		return contest.Contest{}, false, fmt.Errorf("get contest: %w", err)
	}

	return contestFromRow(row), true, nil
}

func (r *ContestRepository) ListByMatch(ctx context.Context, matchID string) ([]contest.Contest, error) {
	query, args, err := qb.Select("*").From("contests").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list contests by match query: %w", err)
	}

	var rows []contestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contests by match: %w", err)
	}

	out := make([]contest.Contest, 0, len(rows))
	for _, row := range rows {
		out = append(out, contestFromRow(row))
	}
	return out, nil
}

// CreateEntry reserves a slot with a guarded increment, then inserts the entry
// in the same transaction so a rejected insert releases the slot.
func (r *ContestRepository) CreateEntry(ctx context.Context, entry contest.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create contest entry: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	reserveQuery, reserveArgs, err := qb.Update("contests").
		SetExpr("entry_count", "entry_count + 1").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", entry.ContestID),
			qb.IsNull("deleted_at"),
			qb.Expr("entry_count < capacity"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build reserve contest slot query: %w", err)
	}
	result, err := tx.ExecContext(ctx, reserveQuery, reserveArgs...)
	if err != nil {
		return fmt.Errorf("reserve contest slot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected reserve contest slot: %w", err)
	}
	if affected == 0 {
		return contest.ErrContestFull
	}

	joinedAt := entry.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = time.Now().UTC()
	}
	insertQuery, insertArgs, err := qb.InsertModel("contest_entries", contestEntryInsertModel{
		PublicID:  entry.ID,
		ContestID: entry.ContestID,
		UserID:    entry.UserID,
		TeamID:    entry.TeamID,
		JoinedAt:  joinedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build create contest entry query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		if isUniqueViolation(err, contestEntryUserConstraint) {
			return contest.ErrAlreadyJoined
		}
		return fmt.Errorf("create contest entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create contest entry tx: %w", err)
	}
	return nil
}

func (r *ContestRepository) ListEntries(ctx context.Context, contestID string) ([]contest.Entry, error) {
	query, args, err := qb.Select("*").From("contest_entries").
		Where(qb.Eq("contest_public_id", contestID)).
		OrderBy("joined_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list contest entries query: %w", err)
	}

	var rows []contestEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contest entries: %w", err)
	}

	out := make([]contest.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, contest.Entry{
			ID:        row.PublicID,
			ContestID: row.ContestID,
			UserID:    row.UserID,
			TeamID:    row.TeamID,
			Points:    row.Points,
			Rank:      row.Rank,
			JoinedAt:  row.JoinedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *ContestRepository) UpdateEntryScores(ctx context.Context, contestID string, entries []contest.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update contest entry scores: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, entry := range entries {
		query, args, err := qb.Update("contest_entries").
			Set("points", entry.Points).
			Set("rank", entry.Rank).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", entry.ID),
				qb.Eq("contest_public_id", contestID),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update contest entry score query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update contest entry score %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update contest entry scores tx: %w", err)
	}
	return nil
}

func contestFromRow(row contestTableModel) contest.Contest {
	return contest.Contest{
		ID:         row.PublicID,
		MatchID:    row.MatchID,
		Name:       row.Name,
		Capacity:   row.Capacity,
		EntryCount: row.EntryCount,
		CreatedBy:  row.CreatedBy,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
