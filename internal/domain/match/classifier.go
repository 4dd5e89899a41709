package match

import (
	"sort"
	"time"
)

// LiveWindow bounds how long a started match without an end signal stays live.
const LiveWindow = 24 * time.Hour

type Bucket string

const (
	BucketUpcoming  Bucket = "upcoming"
	BucketLive      Bucket = "live"
	BucketCompleted Bucket = "completed"
)

// Lifecycle is the minimal view of a record the classifier needs.
type Lifecycle struct {
	StartAt    time.Time
	HasStarted bool
	HasEnded   bool
	Declared   State
}

// Classifiable is implemented by any record exposing a Lifecycle.
type Classifiable interface {
	Lifecycle() Lifecycle
}

// Buckets holds the three disjoint, ordered views produced by Classify.
type Buckets[T Classifiable] struct {
	Upcoming  []T
	Live      []T
	Completed []T
}

// Get returns the slice for bucket.
func (b Buckets[T]) Get(bucket Bucket) []T {
	switch bucket {
	case BucketUpcoming:
		return b.Upcoming
	case BucketLive:
		return b.Live
	case BucketCompleted:
		return b.Completed
	default:
		return nil
	}
}

// Resolve decides the bucket for one record. ok is false when the record
// belongs to no bucket: a zero start, or a stale match that never ended.
func Resolve(l Lifecycle, now time.Time) (Bucket, bool) {
	if l.StartAt.IsZero() {
		return "", false
	}
	if bucket, ok := declaredBucket(l.Declared); ok {
		return bucket, true
	}
	return heuristicBucket(l, now)
}

func declaredBucket(state State) (Bucket, bool) {
	switch state {
	case StateFixture:
		return BucketUpcoming, true
	case StateLive:
		return BucketLive, true
	case StateResult:
		return BucketCompleted, true
	default:
		return "", false
	}
}

func heuristicBucket(l Lifecycle, now time.Time) (Bucket, bool) {
	switch {
	case l.HasEnded:
		return BucketCompleted, true
	case l.HasStarted:
		if now.Sub(l.StartAt) <= LiveWindow {
			return BucketLive, true
		}
		return "", false
	default:
		return BucketUpcoming, true
	}
}

// Classify partitions items into upcoming, live and completed buckets.
// Upcoming and live are ordered by start ascending, completed descending;
// equal starts keep input order. The input slice is not modified.
func Classify[T Classifiable](items []T, now time.Time) Buckets[T] {
	var out Buckets[T]
	for _, item := range items {
		bucket, ok := Resolve(item.Lifecycle(), now)
		if !ok {
			continue
		}
		switch bucket {
		case BucketUpcoming:
			out.Upcoming = append(out.Upcoming, item)
		case BucketLive:
			out.Live = append(out.Live, item)
		case BucketCompleted:
			out.Completed = append(out.Completed, item)
		}
	}

	sortByStart(out.Upcoming, false)
	sortByStart(out.Live, false)
	sortByStart(out.Completed, true)
	return out
}

func sortByStart[T Classifiable](items []T, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Lifecycle().StartAt, items[j].Lifecycle().StartAt
		if desc {
			return a.After(b)
		}
		return a.Before(b)
	})
}
