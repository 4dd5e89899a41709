package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

type contestTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	MatchID    string     `db:"match_public_id"`
	Name       string     `db:"name"`
	Capacity   int        `db:"capacity"`
	EntryCount int        `db:"entry_count"`
	CreatedBy  string     `db:"created_by"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type contestInsertModel struct {
	PublicID  string `db:"public_id"`
	MatchID   string `db:"match_public_id"`
	Name      string `db:"name"`
	Capacity  int    `db:"capacity"`
	CreatedBy string `db:"created_by"`
}

type contestEntryTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	ContestID string         `db:"contest_public_id"`
	UserID    string         `db:"user_id"`
	TeamID    string         `db:"team_public_id"`
	Points    scoring.Points `db:"points"`
	Rank      int            `db:"rank"`
	JoinedAt  time.Time      `db:"joined_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type contestEntryInsertModel struct {
	PublicID  string    `db:"public_id"`
	ContestID string    `db:"contest_public_id"`
	UserID    string    `db:"user_id"`
	TeamID    string    `db:"team_public_id"`
	JoinedAt  time.Time `db:"joined_at"`
}
