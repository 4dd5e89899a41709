package scoring

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidPerformance = errors.New("invalid performance record")
	ErrUnknownRole        = errors.New("unknown fantasy role")
	ErrInvalidTable       = errors.New("invalid scoring table")
)

// PlayingRole is a player's on-field specialism as reported by the provider.
type PlayingRole string

const (
	PlayingRoleUnknown      PlayingRole = ""
	PlayingRoleBatsman      PlayingRole = "batsman"
	PlayingRoleBowler       PlayingRole = "bowler"
	PlayingRoleAllRounder   PlayingRole = "allrounder"
	PlayingRoleWicketKeeper PlayingRole = "wicketkeeper"
)

// ParsePlayingRole maps provider role text ("Batsman", "Bowling Allrounder",
// "WK-Batsman") to a PlayingRole.
func ParsePlayingRole(raw string) PlayingRole {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case value == "":
		return PlayingRoleUnknown
	case strings.HasPrefix(value, "wk") || strings.Contains(value, "keeper"):
		return PlayingRoleWicketKeeper
	case strings.Contains(value, "allrounder") || strings.Contains(value, "all-rounder"):
		return PlayingRoleAllRounder
	case strings.Contains(value, "bowl"):
		return PlayingRoleBowler
	case strings.Contains(value, "bat"):
		return PlayingRoleBatsman
	default:
		return PlayingRoleUnknown
	}
}

// Role is the fantasy designation of a pick inside a user team.
type Role string

const (
	RoleNone        Role = ""
	RoleCaptain     Role = "captain"
	RoleViceCaptain Role = "vice_captain"
)

func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "player":
		return RoleNone, nil
	case "captain", "c":
		return RoleCaptain, nil
	case "vice_captain", "vice-captain", "vicecaptain", "vc":
		return RoleViceCaptain, nil
	default:
		return RoleNone, ErrUnknownRole
	}
}

// Performance is one player's raw statistics for one match.
// Zero fields mean the category did not happen or was not reported.
type Performance struct {
	PlayerID    string
	PlayerName  string
	TeamName    string
	PlayingRole PlayingRole

	Runs       int
	BallsFaced int
	Fours      int
	Sixes      int
	Dismissed  bool

	Wickets      int
	Overs        float64
	RunsConceded int
	Maidens      int

	Catches         int
	Stumpings       int
	RunOutsDirect   int
	RunOutsAssisted int
}

// PlayerMatchPoints is the persisted snapshot of a player's base points in a match.
type PlayerMatchPoints struct {
	MatchID      string
	PlayerID     string
	PlayerName   string
	TeamName     string
	Points       Points
	Breakdown    Breakdown
	CalculatedAt time.Time
}
