package player

import (
	"fmt"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

// Player is a selectable cricketer in a match squad.
type Player struct {
	ID           string
	Name         string
	TeamName     string
	Country      string
	PlayingRole  scoring.PlayingRole
	BattingStyle string
	BowlingStyle string
	ImageURL     string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

// SquadTeam is one side's announced squad.
type SquadTeam struct {
	TeamName  string
	ShortName string
	ImageURL  string
	Players   []Player
}

// Squad is the selectable player pool for one match.
type Squad struct {
	MatchID string
	Teams   []SquadTeam
}

// Index returns the squad players keyed by ID.
func (s Squad) Index() map[string]Player {
	out := make(map[string]Player)
	for _, team := range s.Teams {
		for _, p := range team.Players {
			out[p.ID] = p
		}
	}
	return out
}

// Missing returns the IDs in playerIDs that are not part of the squad.
func (s Squad) Missing(playerIDs []string) []string {
	index := s.Index()
	var missing []string
	for _, id := range playerIDs {
		if _, ok := index[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
