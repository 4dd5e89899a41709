package scoring

import (
	"fmt"
	"slices"
)

// Tier awards Points once when a count reaches Threshold.
// Only the highest tier reached is awarded.
type Tier struct {
	Threshold int
	Points    int64
}

// Bound is one side of a rate band, in hundredths (17000 = 170.00).
type Bound struct {
	Value     int64
	Inclusive bool
}

// RateBand awards Points when a rate lies between Lower and Upper.
// A nil bound is open-ended.
type RateBand struct {
	Lower  *Bound
	Upper  *Bound
	Points int64
}

// RateRule awards the first matching band once the sample reaches MinSample.
// MinSample is balls faced for strike rate and legal balls bowled for economy.
type RateRule struct {
	MinSample int
	Bands     []RateBand
}

func Above(v int64) *Bound   { return &Bound{Value: v} }
func AtLeast(v int64) *Bound { return &Bound{Value: v, Inclusive: true} }
func Below(v int64) *Bound   { return &Bound{Value: v} }
func AtMost(v int64) *Bound  { return &Bound{Value: v, Inclusive: true} }

// Table is the declarative rule set the engine evaluates.
type Table struct {
	Run        int64
	Four       int64
	Six        int64
	Milestones []Tier
	Duck       int64
	DuckExempt []PlayingRole

	Wicket int64
	Hauls  []Tier
	Maiden int64

	StrikeRate RateRule
	Economy    RateRule

	Catch          int64
	Stumping       int64
	RunOutDirect   int64
	RunOutAssisted int64
	Multipliers    map[Role]int64
}

func DefaultTable() Table {
	return Table{
		Run:  1,
		Four: 1,
		Six:  2,
		Milestones: []Tier{
			{Threshold: 50, Points: 8},
			{Threshold: 100, Points: 16},
		},
		Duck:       -2,
		DuckExempt: []PlayingRole{PlayingRoleBowler, PlayingRoleWicketKeeper},

		Wicket: 25,
		Hauls: []Tier{
			{Threshold: 3, Points: 4},
			{Threshold: 4, Points: 8},
			{Threshold: 5, Points: 16},
		},
		Maiden: 12,

		StrikeRate: RateRule{
			MinSample: 10,
			Bands: []RateBand{
				{Lower: Above(17000), Points: 6},
				{Lower: AtLeast(15000), Upper: AtMost(17000), Points: 4},
			},
		},
		Economy: RateRule{
			MinSample: 12,
			Bands: []RateBand{
				{Upper: Below(500), Points: 6},
				{Lower: AtLeast(500), Upper: AtMost(600), Points: 4},
			},
		},

		Catch:          8,
		Stumping:       12,
		RunOutDirect:   12,
		RunOutAssisted: 6,
		Multipliers: map[Role]int64{
			RoleNone:        100,
			RoleCaptain:     200,
			RoleViceCaptain: 150,
		},
	}
}

func (t Table) Validate() error {
	if err := validateTiers("milestones", t.Milestones); err != nil {
		return err
	}
	if err := validateTiers("hauls", t.Hauls); err != nil {
		return err
	}
	if t.Duck > 0 {
		return fmt.Errorf("%w: duck must not be positive", ErrInvalidTable)
	}
	if err := validateRateRule("strike rate", t.StrikeRate); err != nil {
		return err
	}
	if err := validateRateRule("economy", t.Economy); err != nil {
		return err
	}
	for _, role := range []Role{RoleNone, RoleCaptain, RoleViceCaptain} {
		multiplier, ok := t.Multipliers[role]
		if !ok || multiplier <= 0 {
			return fmt.Errorf("%w: multiplier for role %q must be > 0", ErrInvalidTable, role)
		}
	}
	return nil
}

func (t Table) duckApplies(role PlayingRole) bool {
	return !slices.Contains(t.DuckExempt, role)
}

func validateTiers(name string, tiers []Tier) error {
	prev := 0
	for i, tier := range tiers {
		if tier.Threshold <= prev {
			return fmt.Errorf("%w: %s tier %d threshold must be ascending and > 0", ErrInvalidTable, name, i)
		}
		prev = tier.Threshold
	}
	return nil
}

func validateRateRule(name string, rule RateRule) error {
	if len(rule.Bands) > 0 && rule.MinSample <= 0 {
		return fmt.Errorf("%w: %s min sample must be > 0", ErrInvalidTable, name)
	}
	for i, band := range rule.Bands {
		if band.Lower == nil && band.Upper == nil {
			return fmt.Errorf("%w: %s band %d has no bounds", ErrInvalidTable, name, i)
		}
		if band.Lower != nil && band.Upper != nil && band.Lower.Value > band.Upper.Value {
			return fmt.Errorf("%w: %s band %d lower bound exceeds upper bound", ErrInvalidTable, name, i)
		}
	}
	return nil
}

// highestTier returns the points of the highest tier reached by count.
func highestTier(tiers []Tier, count int) (Tier, bool) {
	var (
		best  Tier
		found bool
	)
	for _, tier := range tiers {
		if count >= tier.Threshold {
			best = tier
			found = true
		}
	}
	return best, found
}

// contains reports whether num/den lies inside the band, compared exactly as
// num*100 against bound*den.
func (b RateBand) contains(num, den int64) bool {
	scaled := num * 100
	if b.Lower != nil {
		limit := b.Lower.Value * den
		if scaled < limit || (scaled == limit && !b.Lower.Inclusive) {
			return false
		}
	}
	if b.Upper != nil {
		limit := b.Upper.Value * den
		if scaled > limit || (scaled == limit && !b.Upper.Inclusive) {
			return false
		}
	}
	return true
}

func (r RateRule) award(num, den int64, sample int) (RateBand, bool) {
	if sample < r.MinSample || den <= 0 {
		return RateBand{}, false
	}
	for _, band := range r.Bands {
		if band.contains(num, den) {
			return band, true
		}
	}
	return RateBand{}, false
}
