package player

import "testing"

func TestSquad_Missing(t *testing.T) {
	squad := Squad{
		MatchID: "m1",
		Teams: []SquadTeam{
			{TeamName: "India", Players: []Player{{ID: "p1", Name: "A"}, {ID: "p2", Name: "B"}}},
			{TeamName: "Australia", Players: []Player{{ID: "p3", Name: "C"}}},
		},
	}

	missing := squad.Missing([]string{"p1", "p3", "p9", "p2", "p10"})
	if len(missing) != 2 || missing[0] != "p9" || missing[1] != "p10" {
		t.Fatalf("unexpected missing players: %v", missing)
	}
	if len(squad.Index()) != 3 {
		t.Fatalf("expected 3 indexed players, got %d", len(squad.Index()))
	}
}
