package scoring

import (
	"errors"
	"testing"
)

func TestEngine_Total(t *testing.T) {
	engine := DefaultEngine()

	tests := []struct {
		name string
		perf Performance
		role Role
		want Points
	}{
		{
			name: "half-century below strike-rate band",
			perf: Performance{Runs: 50, BallsFaced: 34, Fours: 6, Sixes: 2, Dismissed: true},
			want: FromInt(68),
		},
		{
			name: "half-century as captain multiplies the whole total",
			perf: Performance{Runs: 50, BallsFaced: 34, Fours: 6, Sixes: 2, Dismissed: true},
			role: RoleCaptain,
			want: FromInt(136),
		},
		{
			name: "half-century at strike rate 166.67 earns the 150-170 bonus",
			perf: Performance{Runs: 50, BallsFaced: 30, Fours: 6, Sixes: 2},
			want: FromInt(72),
		},
		{
			name: "five-wicket haul with economy exactly 5.00",
			perf: Performance{PlayingRole: PlayingRoleBowler, Wickets: 5, Overs: 4, RunsConceded: 20, Maidens: 1},
			want: FromInt(157),
		},
		{
			name: "vice-captain produces half points",
			perf: Performance{Runs: 7},
			role: RoleViceCaptain,
			want: Points(1050),
		},
		{
			name: "century replaces half-century bonus",
			perf: Performance{Runs: 100, BallsFaced: 80},
			want: FromInt(116),
		},
		{
			name: "strike rate above 170",
			perf: Performance{Runs: 18, BallsFaced: 10},
			want: FromInt(24),
		},
		{
			name: "strike rate exactly 170 is the lower band",
			perf: Performance{Runs: 17, BallsFaced: 10},
			want: FromInt(21),
		},
		{
			name: "strike rate exactly 150 qualifies",
			perf: Performance{Runs: 15, BallsFaced: 10},
			want: FromInt(19),
		},
		{
			name: "strike rate ignored under 10 balls",
			perf: Performance{Runs: 20, BallsFaced: 9},
			want: FromInt(20),
		},
		{
			name: "economy below 5",
			perf: Performance{Overs: 2, RunsConceded: 9},
			want: FromInt(6),
		},
		{
			name: "economy exactly 6 is inclusive",
			perf: Performance{Overs: 2, RunsConceded: 12},
			want: FromInt(4),
		},
		{
			name: "economy above 6 earns nothing",
			perf: Performance{Overs: 2, RunsConceded: 13},
			want: 0,
		},
		{
			name: "economy needs two full overs",
			perf: Performance{Overs: 1.5, RunsConceded: 2},
			want: 0,
		},
		{
			name: "partial overs use legal balls",
			perf: Performance{Overs: 3.4, RunsConceded: 11},
			want: FromInt(6),
		},
		{
			name: "three and four wicket hauls are tiered",
			perf: Performance{Wickets: 4},
			want: FromInt(108),
		},
		{
			name: "fielding",
			perf: Performance{Catches: 2, Stumpings: 1, RunOutsDirect: 1, RunOutsAssisted: 1},
			want: FromInt(46),
		},
		{
			name: "duck when dismissed",
			perf: Performance{PlayingRole: PlayingRoleBatsman, BallsFaced: 3, Dismissed: true},
			want: FromInt(-2),
		},
		{
			name: "duck multiplied for vice-captain",
			perf: Performance{PlayingRole: PlayingRoleAllRounder, Dismissed: true},
			role: RoleViceCaptain,
			want: FromInt(-3),
		},
		{
			name: "not out on zero has no penalty",
			perf: Performance{PlayingRole: PlayingRoleBatsman, BallsFaced: 4},
			want: 0,
		},
		{
			name: "bowler out for zero has no penalty",
			perf: Performance{PlayingRole: PlayingRoleBowler, BallsFaced: 1, Dismissed: true},
			want: 0,
		},
		{
			name: "wicket-keeper out for zero has no penalty",
			perf: Performance{PlayingRole: PlayingRoleWicketKeeper, BallsFaced: 3, Dismissed: true},
			want: 0,
		},
		{
			name: "unknown role out for zero is penalised",
			perf: Performance{BallsFaced: 2, Dismissed: true},
			want: FromInt(-2),
		},
		{
			name: "empty record scores zero",
			perf: Performance{PlayerID: "p1"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Total(tt.perf, tt.role)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s points, got %s", tt.want, got)
			}
		})
	}
}

func TestEngine_CalculateBreakdown(t *testing.T) {
	b, err := DefaultEngine().Calculate(Performance{Runs: 50, BallsFaced: 30, Fours: 6, Sixes: 2}, RoleCaptain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Batting != FromInt(60) {
		t.Fatalf("expected batting 60, got %s", b.Batting)
	}
	if b.Bonus != FromInt(12) {
		t.Fatalf("expected bonus 12, got %s", b.Bonus)
	}
	if b.Base != FromInt(72) || b.Multiplier != Points(200) || b.Total != FromInt(144) {
		t.Fatalf("unexpected totals: base=%s multiplier=%s total=%s", b.Base, b.Multiplier, b.Total)
	}

	rules := make(map[string]Points)
	for _, item := range b.Items {
		rules[item.Rule] = item.Points
	}
	if rules["milestone_50"] != FromInt(8) || rules["strike_rate"] != FromInt(4) {
		t.Fatalf("unexpected line items: %+v", b.Items)
	}
	if _, ok := rules["milestone_100"]; ok {
		t.Fatalf("unexpected century line item")
	}
}

func TestEngine_RejectsInvalidInput(t *testing.T) {
	engine := DefaultEngine()

	tests := []struct {
		name      string
		perf      Performance
		role      Role
		targetErr error
	}{
		{name: "negative balls", perf: Performance{BallsFaced: -1}, targetErr: ErrInvalidPerformance},
		{name: "negative overs", perf: Performance{Overs: -0.1}, targetErr: ErrInvalidPerformance},
		{name: "negative wickets", perf: Performance{Wickets: -2}, targetErr: ErrInvalidPerformance},
		{name: "seven balls in an over", perf: Performance{Overs: 3.7}, targetErr: ErrInvalidPerformance},
		{name: "two decimal overs", perf: Performance{Overs: 3.25}, targetErr: ErrInvalidPerformance},
		{name: "unknown role", perf: Performance{}, role: Role("twelfth_man"), targetErr: ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Calculate(tt.perf, tt.role)
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestLegalBalls(t *testing.T) {
	cases := map[float64]int{
		0:    0,
		0.5:  5,
		1:    6,
		3.4:  22,
		4:    24,
		19.5: 119,
		50:   300,
	}
	for overs, want := range cases {
		got, err := LegalBalls(overs)
		if err != nil {
			t.Fatalf("LegalBalls(%v) error: %v", overs, err)
		}
		if got != want {
			t.Fatalf("LegalBalls(%v) = %d, want %d", overs, got, want)
		}
	}
}

func TestNewEngine_ValidatesTable(t *testing.T) {
	table := DefaultTable()
	table.Milestones = []Tier{{Threshold: 100, Points: 16}, {Threshold: 50, Points: 8}}
	if _, err := NewEngine(table); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected invalid table for unordered tiers, got %v", err)
	}

	table = DefaultTable()
	delete(table.Multipliers, RoleCaptain)
	if _, err := NewEngine(table); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected invalid table for missing multiplier, got %v", err)
	}

	table = DefaultTable()
	table.Six = 3
	engine, err := NewEngine(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := engine.Total(Performance{Runs: 6, Sixes: 1}, RoleNone)
	if got != FromInt(9) {
		t.Fatalf("expected custom table to apply, got %s", got)
	}
}

func TestEngine_ApplyRole(t *testing.T) {
	engine := DefaultEngine()
	base := FromInt(157)

	got, err := engine.ApplyRole(base, RoleViceCaptain)
	if err != nil {
		t.Fatalf("apply role failed: %v", err)
	}
	if got.String() != "235.50" {
		t.Fatalf("expected 235.50, got %s", got)
	}

	if got, _ := engine.ApplyRole(base, RoleNone); got != base {
		t.Fatalf("expected unchanged base, got %s", got)
	}
	if _, err := engine.ApplyRole(base, Role("twelfth_man")); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}
