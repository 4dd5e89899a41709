package match

import (
	"strings"
	"time"
)

// State is the lifecycle state declared by the data provider.
type State string

const (
	StateUnknown State = ""
	StateFixture State = "fixture"
	StateLive    State = "live"
	StateResult  State = "result"
)

// ParseState normalises provider text. Anything unrecognised is StateUnknown.
func ParseState(raw string) State {
	switch State(strings.ToLower(strings.TrimSpace(raw))) {
	case StateFixture:
		return StateFixture
	case StateLive:
		return StateLive
	case StateResult:
		return StateResult
	default:
		return StateUnknown
	}
}

// TeamInfo describes one side of a match.
type TeamInfo struct {
	Name      string
	ShortName string
	ImageURL  string
}

// Innings is a score snapshot for one innings.
type Innings struct {
	Label   string
	Runs    int
	Wickets int
	Overs   float64
}

// Match is the persisted snapshot of one provider match.
type Match struct {
	ID            string
	Name          string
	MatchType     string
	Status        string
	Venue         string
	StartAt       time.Time
	HasStarted    bool
	HasEnded      bool
	DeclaredState State
	Teams         [2]TeamInfo
	Innings       []Innings
	SyncedAt      time.Time
}

func (m Match) Lifecycle() Lifecycle {
	return Lifecycle{
		StartAt:    m.StartAt,
		HasStarted: m.HasStarted,
		HasEnded:   m.HasEnded,
		Declared:   m.DeclaredState,
	}
}

// Classify returns the bucket the match falls into at now.
func (m Match) Classify(now time.Time) (Bucket, bool) {
	return Resolve(m.Lifecycle(), now)
}
