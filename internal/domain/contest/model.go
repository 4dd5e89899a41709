package contest

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

var (
	ErrContestFull   = errors.New("contest is full")
	ErrAlreadyJoined = errors.New("user already joined contest")
	ErrTeamMismatch  = errors.New("team does not belong to contest match")
)

// Contest is a free pool of entries for one match.
type Contest struct {
	ID         string
	MatchID    string
	Name       string
	Capacity   int
	EntryCount int
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c Contest) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("contest id is required")
	}
	if c.MatchID == "" {
		return fmt.Errorf("contest match id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("contest name is required")
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("contest capacity must be greater than zero")
	}
	return nil
}

func (c Contest) IsFull() bool {
	return c.EntryCount >= c.Capacity
}

func (c Contest) SpotsLeft() int {
	if c.IsFull() {
		return 0
	}
	return c.Capacity - c.EntryCount
}

// Entry is one user's team inside a contest.
type Entry struct {
	ID        string
	ContestID string
	UserID    string
	TeamID    string
	Points    scoring.Points
	Rank      int
	JoinedAt  time.Time
	UpdatedAt time.Time
}

// RankEntries orders entries by points descending and assigns dense ranks:
// equal points share a rank and the next distinct score takes rank+1.
// Equal points are ordered by join time, then entry ID.
func RankEntries(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})

	rank := 0
	for i := range out {
		if i == 0 || out[i].Points != out[i-1].Points {
			rank++
		}
		out[i].Rank = rank
	}
	return out
}
