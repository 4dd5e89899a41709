package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID            int64        `db:"id"`
	PublicID      string       `db:"public_id"`
	Name          string       `db:"name"`
	MatchType     string       `db:"match_type"`
	StatusText    string       `db:"status_text"`
	Venue         string       `db:"venue"`
	StartAt       sql.NullTime `db:"start_at"`
	HasStarted    bool         `db:"has_started"`
	HasEnded      bool         `db:"has_ended"`
	DeclaredState string       `db:"declared_state"`
	Teams         []byte       `db:"teams"`
	Innings       []byte       `db:"innings"`
	SyncedAt      time.Time    `db:"synced_at"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID      string       `db:"public_id"`
	Name          string       `db:"name"`
	MatchType     string       `db:"match_type"`
	StatusText    string       `db:"status_text"`
	Venue         string       `db:"venue"`
	StartAt       sql.NullTime `db:"start_at"`
	HasStarted    bool         `db:"has_started"`
	HasEnded      bool         `db:"has_ended"`
	DeclaredState string       `db:"declared_state"`
	Teams         string       `db:"teams"`
	Innings       string       `db:"innings"`
	SyncedAt      time.Time    `db:"synced_at"`
}

type matchTeamColumn struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

type matchInningsColumn struct {
	Label   string  `json:"label"`
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Overs   float64 `json:"overs"`
}
