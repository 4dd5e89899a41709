package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

type playerMatchPointsTableModel struct {
	ID           int64          `db:"id"`
	MatchID      string         `db:"match_public_id"`
	PlayerID     string         `db:"player_public_id"`
	PlayerName   string         `db:"player_name"`
	TeamName     string         `db:"team_name"`
	Points       scoring.Points `db:"points"`
	Breakdown    []byte         `db:"breakdown"`
	CalculatedAt time.Time      `db:"calculated_at"`
}

type playerMatchPointsInsertModel struct {
	MatchID      string         `db:"match_public_id"`
	PlayerID     string         `db:"player_public_id"`
	PlayerName   string         `db:"player_name"`
	TeamName     string         `db:"team_name"`
	Points       scoring.Points `db:"points"`
	Breakdown    string         `db:"breakdown"`
	CalculatedAt time.Time      `db:"calculated_at"`
}
