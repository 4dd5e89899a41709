package team

import (
	"errors"
	"fmt"
	"time"
)

const Size = 11

var (
	ErrInvalidTeamSize           = errors.New("invalid team size")
	ErrDuplicatePlayer           = errors.New("duplicate player in team")
	ErrCaptainNotInTeam          = errors.New("captain is not a team member")
	ErrViceCaptainNotInTeam      = errors.New("vice-captain is not a team member")
	ErrSameCaptainAndViceCaptain = errors.New("captain and vice-captain must be different players")
)

// UserTeam is a user's eleven picks for one match.
type UserTeam struct {
	ID            string
	UserID        string
	MatchID       string
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t UserTeam) ValidateBasic() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if t.MatchID == "" {
		return fmt.Errorf("match id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return ValidateSelection(t.PlayerIDs, t.CaptainID, t.ViceCaptainID)
}

// ValidateSelection checks the eleven-player invariant and the captaincy picks.
// Role composition is not enforced.
func ValidateSelection(playerIDs []string, captainID, viceCaptainID string) error {
	if len(playerIDs) != Size {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidTeamSize, Size, len(playerIDs))
	}

	members := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if id == "" {
			return fmt.Errorf("player id is required")
		}
		if _, exists := members[id]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		members[id] = struct{}{}
	}

	if captainID != "" && captainID == viceCaptainID {
		return fmt.Errorf("%w: %s", ErrSameCaptainAndViceCaptain, captainID)
	}
	if _, ok := members[captainID]; !ok {
		return fmt.Errorf("%w: %q", ErrCaptainNotInTeam, captainID)
	}
	if _, ok := members[viceCaptainID]; !ok {
		return fmt.Errorf("%w: %q", ErrViceCaptainNotInTeam, viceCaptainID)
	}
	return nil
}
