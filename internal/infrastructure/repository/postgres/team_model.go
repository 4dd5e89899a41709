package postgres

import (
	"time"

	"github.com/lib/pq"
)

type userTeamTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	UserID        string         `db:"user_id"`
	MatchID       string         `db:"match_public_id"`
	Name          string         `db:"name"`
	PlayerIDs     pq.StringArray `db:"player_ids"`
	CaptainID     string         `db:"captain_player_id"`
	ViceCaptainID string         `db:"vice_captain_player_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	DeletedAt     *time.Time     `db:"deleted_at"`
}

type userTeamInsertModel struct {
	PublicID      string         `db:"public_id"`
	UserID        string         `db:"user_id"`
	MatchID       string         `db:"match_public_id"`
	Name          string         `db:"name"`
	PlayerIDs     pq.StringArray `db:"player_ids"`
	CaptainID     string         `db:"captain_player_id"`
	ViceCaptainID string         `db:"vice_captain_player_id"`
}
