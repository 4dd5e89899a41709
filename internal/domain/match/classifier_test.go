package match

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func ids(items []Match) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		in     Lifecycle
		want   Bucket
		wantOK bool
	}{
		{
			name:   "declared live ignores age",
			in:     Lifecycle{StartAt: testNow.Add(-5 * 24 * time.Hour), HasStarted: true, Declared: StateLive},
			want:   BucketLive,
			wantOK: true,
		},
		{
			name:   "declared result ignores flags",
			in:     Lifecycle{StartAt: testNow.Add(time.Hour), Declared: StateResult},
			want:   BucketCompleted,
			wantOK: true,
		},
		{
			name:   "declared fixture ignores ended flag",
			in:     Lifecycle{StartAt: testNow.Add(-time.Hour), HasStarted: true, HasEnded: true, Declared: StateFixture},
			want:   BucketUpcoming,
			wantOK: true,
		},
		{
			name:   "ended without declared state",
			in:     Lifecycle{StartAt: testNow.Add(-48 * time.Hour), HasStarted: true, HasEnded: true},
			want:   BucketCompleted,
			wantOK: true,
		},
		{
			name:   "started within window",
			in:     Lifecycle{StartAt: testNow.Add(-3 * time.Hour), HasStarted: true},
			want:   BucketLive,
			wantOK: true,
		},
		{
			name:   "started exactly 24h ago is live",
			in:     Lifecycle{StartAt: testNow.Add(-LiveWindow), HasStarted: true},
			want:   BucketLive,
			wantOK: true,
		},
		{
			name:   "started just over 24h ago is dropped",
			in:     Lifecycle{StartAt: testNow.Add(-LiveWindow - time.Second), HasStarted: true},
			wantOK: false,
		},
		{
			name:   "not started far in the future",
			in:     Lifecycle{StartAt: testNow.Add(90 * 24 * time.Hour)},
			want:   BucketUpcoming,
			wantOK: true,
		},
		{
			name:   "not started with start in the past",
			in:     Lifecycle{StartAt: testNow.Add(-72 * time.Hour)},
			want:   BucketUpcoming,
			wantOK: true,
		},
		{
			name:   "zero start is excluded even when declared",
			in:     Lifecycle{Declared: StateLive},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.in, testNow)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v (bucket=%q)", tt.wantOK, ok, got)
			}
			if ok && got != tt.want {
				t.Fatalf("expected bucket %q, got %q", tt.want, got)
			}
		})
	}
}

func TestClassify_OrderingPerBucket(t *testing.T) {
	items := []Match{
		{ID: "u2", StartAt: testNow.Add(48 * time.Hour)},
		{ID: "c1", StartAt: testNow.Add(-72 * time.Hour), DeclaredState: StateResult},
		{ID: "l2", StartAt: testNow.Add(-1 * time.Hour), HasStarted: true},
		{ID: "u1", StartAt: testNow.Add(2 * time.Hour)},
		{ID: "c3", StartAt: testNow.Add(-24 * time.Hour), HasStarted: true, HasEnded: true},
		{ID: "l1", StartAt: testNow.Add(-6 * 24 * time.Hour), DeclaredState: StateLive},
		{ID: "u3", StartAt: testNow.Add(30 * 24 * time.Hour), DeclaredState: StateFixture},
		{ID: "c2", StartAt: testNow.Add(-48 * time.Hour), HasEnded: true},
		{ID: "l3", StartAt: testNow.Add(-10 * time.Minute), DeclaredState: StateLive},
		{ID: "stale", StartAt: testNow.Add(-30 * time.Hour), HasStarted: true},
		{ID: "bad-start", HasStarted: true},
	}

	got := Classify(items, testNow)

	if want := []string{"u1", "u2", "u3"}; !equalIDs(ids(got.Upcoming), want) {
		t.Fatalf("unexpected upcoming order: want %v got %v", want, ids(got.Upcoming))
	}
	if want := []string{"l1", "l2", "l3"}; !equalIDs(ids(got.Live), want) {
		t.Fatalf("unexpected live order: want %v got %v", want, ids(got.Live))
	}
	if want := []string{"c3", "c2", "c1"}; !equalIDs(ids(got.Completed), want) {
		t.Fatalf("unexpected completed order: want %v got %v", want, ids(got.Completed))
	}
	if items[0].ID != "u2" {
		t.Fatalf("input slice was reordered")
	}
}

func TestClassify_BucketsAreDisjoint(t *testing.T) {
	var items []Match
	states := []State{StateUnknown, StateFixture, StateLive, StateResult}
	for i := 0; i < 64; i++ {
		items = append(items, Match{
			ID:            string(rune('A' + i%26)) + string(rune('a'+i/26)),
			StartAt:       testNow.Add(time.Duration(i-32) * 3 * time.Hour),
			HasStarted:    i%2 == 0,
			HasEnded:      i%5 == 0,
			DeclaredState: states[i%len(states)],
		})
	}

	got := Classify(items, testNow)
	seen := make(map[string]Bucket)
	for _, bucket := range []Bucket{BucketUpcoming, BucketLive, BucketCompleted} {
		for _, item := range got.Get(bucket) {
			if prev, ok := seen[item.ID]; ok {
				t.Fatalf("match %s in both %s and %s", item.ID, prev, bucket)
			}
			seen[item.ID] = bucket
		}
	}
}

func TestClassify_EqualStartKeepsInputOrder(t *testing.T) {
	start := testNow.Add(-2 * time.Hour)
	items := []Match{
		{ID: "b", StartAt: start, DeclaredState: StateResult},
		{ID: "a", StartAt: start, DeclaredState: StateResult},
		{ID: "c", StartAt: start, DeclaredState: StateResult},
		{ID: "x", StartAt: testNow.Add(time.Hour)},
		{ID: "y", StartAt: testNow.Add(time.Hour)},
	}

	got := Classify(items, testNow)
	if want := []string{"b", "a", "c"}; !equalIDs(ids(got.Completed), want) {
		t.Fatalf("unexpected completed order: want %v got %v", want, ids(got.Completed))
	}
	if want := []string{"x", "y"}; !equalIDs(ids(got.Upcoming), want) {
		t.Fatalf("unexpected upcoming order: want %v got %v", want, ids(got.Upcoming))
	}
}

func TestParseState(t *testing.T) {
	cases := map[string]State{
		"fixture":  StateFixture,
		" LIVE ":   StateLive,
		"Result":   StateResult,
		"":         StateUnknown,
		"abandon":  StateUnknown,
		"upcoming": StateUnknown,
	}
	for raw, want := range cases {
		if got := ParseState(raw); got != want {
			t.Fatalf("ParseState(%q) = %q, want %q", raw, got, want)
		}
	}
}
