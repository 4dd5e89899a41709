package scoring

import (
	"fmt"
	"math"
)

// LineItem is one awarded rule in a breakdown.
type LineItem struct {
	Rule   string `json:"rule"`
	Count  int    `json:"count"`
	Points Points `json:"points"`
}

// Breakdown itemises a calculation. Base is the pre-multiplier sum and
// Total is Base times Multiplier, rounded half-up to two decimals.
type Breakdown struct {
	Batting    Points     `json:"batting"`
	Bowling    Points     `json:"bowling"`
	Fielding   Points     `json:"fielding"`
	Bonus      Points     `json:"bonus"`
	Penalty    Points     `json:"penalty"`
	Base       Points     `json:"base"`
	Multiplier Points     `json:"multiplier"`
	Total      Points     `json:"total"`
	Items      []LineItem `json:"items,omitempty"`
}

// Engine evaluates a Table against performance records.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	table Table
}

func NewEngine(table Table) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Engine{table: table}, nil
}

func DefaultEngine() *Engine {
	return &Engine{table: DefaultTable()}
}

func (e *Engine) Total(perf Performance, role Role) (Points, error) {
	breakdown, err := e.Calculate(perf, role)
	if err != nil {
		return 0, err
	}
	return breakdown.Total, nil
}

// ApplyRole scales a pre-multiplier base by the role multiplier.
func (e *Engine) ApplyRole(base Points, role Role) (Points, error) {
	multiplier, ok := e.table.Multipliers[role]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return base.mulHundredths(multiplier), nil
}

func (e *Engine) Calculate(perf Performance, role Role) (Breakdown, error) {
	multiplier, ok := e.table.Multipliers[role]
	if !ok {
		return Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	legalBalls, err := validatePerformance(perf)
	if err != nil {
		return Breakdown{}, err
	}

	var b Breakdown
	add := func(category *Points, rule string, count int, each int64) {
		if count == 0 || each == 0 {
			return
		}
		pts := FromInt(int64(count) * each)
		*category += pts
		b.Items = append(b.Items, LineItem{Rule: rule, Count: count, Points: pts})
	}
	t := e.table

	add(&b.Batting, "run", perf.Runs, t.Run)
	add(&b.Batting, "four", perf.Fours, t.Four)
	add(&b.Batting, "six", perf.Sixes, t.Six)
	if tier, ok := highestTier(t.Milestones, perf.Runs); ok {
		add(&b.Bonus, fmt.Sprintf("milestone_%d", tier.Threshold), 1, tier.Points)
	}
	if perf.Dismissed && perf.Runs == 0 && t.duckApplies(perf.PlayingRole) {
		add(&b.Penalty, "duck", 1, t.Duck)
	}

	add(&b.Bowling, "wicket", perf.Wickets, t.Wicket)
	add(&b.Bowling, "maiden", perf.Maidens, t.Maiden)
	if tier, ok := highestTier(t.Hauls, perf.Wickets); ok {
		add(&b.Bonus, fmt.Sprintf("haul_%d", tier.Threshold), 1, tier.Points)
	}

	if band, ok := t.StrikeRate.award(int64(perf.Runs)*100, int64(perf.BallsFaced), perf.BallsFaced); ok {
		add(&b.Bonus, "strike_rate", 1, band.Points)
	}
	if band, ok := t.Economy.award(int64(perf.RunsConceded)*6, int64(legalBalls), legalBalls); ok {
		add(&b.Bonus, "economy", 1, band.Points)
	}

	add(&b.Fielding, "catch", perf.Catches, t.Catch)
	add(&b.Fielding, "stumping", perf.Stumpings, t.Stumping)
	add(&b.Fielding, "run_out_direct", perf.RunOutsDirect, t.RunOutDirect)
	add(&b.Fielding, "run_out_assisted", perf.RunOutsAssisted, t.RunOutAssisted)

	b.Base = b.Batting + b.Bowling + b.Fielding + b.Bonus + b.Penalty
	b.Multiplier = Points(multiplier)
	b.Total = b.Base.mulHundredths(multiplier)
	return b, nil
}

func validatePerformance(perf Performance) (int, error) {
	counts := []struct {
		name  string
		value int
	}{
		{"runs", perf.Runs},
		{"balls faced", perf.BallsFaced},
		{"fours", perf.Fours},
		{"sixes", perf.Sixes},
		{"wickets", perf.Wickets},
		{"runs conceded", perf.RunsConceded},
		{"maidens", perf.Maidens},
		{"catches", perf.Catches},
		{"stumpings", perf.Stumpings},
		{"direct run-outs", perf.RunOutsDirect},
		{"assisted run-outs", perf.RunOutsAssisted},
	}
	for _, c := range counts {
		if c.value < 0 {
			return 0, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidPerformance, c.name, c.value)
		}
	}

	balls, err := LegalBalls(perf.Overs)
	if err != nil {
		return 0, err
	}
	return balls, nil
}

// LegalBalls converts cricket overs notation (3.4 = 3 overs and 4 balls)
// into a count of legal deliveries.
func LegalBalls(overs float64) (int, error) {
	if math.IsNaN(overs) || math.IsInf(overs, 0) {
		return 0, fmt.Errorf("%w: overs must be finite", ErrInvalidPerformance)
	}
	if overs < 0 {
		return 0, fmt.Errorf("%w: overs must not be negative, got %v", ErrInvalidPerformance, overs)
	}

	tenths := math.Round(overs * 10)
	if math.Abs(overs*10-tenths) > 1e-6 {
		return 0, fmt.Errorf("%w: overs %v has more than one decimal place", ErrInvalidPerformance, overs)
	}
	whole := int(tenths) / 10
	balls := int(tenths) % 10
	if balls >= 6 {
		return 0, fmt.Errorf("%w: overs %v has %d balls in the last over", ErrInvalidPerformance, overs, balls)
	}
	return whole*6 + balls, nil
}
