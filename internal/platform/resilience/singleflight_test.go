package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentScorecardLoads(t *testing.T) {
	var g SingleFlight[[]byte]
	var calls int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	var sharedCount int32
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, shared, err := g.Do("scorecard:m-1", func() ([]byte, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(20 * time.Millisecond)
				return []byte(`{"id":"m-1"}`), nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
				return
			}
			if string(val) != `{"id":"m-1"}` {
				t.Errorf("unexpected value: %s", val)
			}
			if shared {
				atomic.AddInt32(&sharedCount, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected load to run once, got %d", got)
	}
	if got := atomic.LoadInt32(&sharedCount); got != workers-1 {
		t.Fatalf("expected %d shared results, got %d", workers-1, got)
	}
	if g.InFlight() != 0 {
		t.Fatalf("expected no in-flight keys after completion")
	}
}

func TestSingleFlight_ErrorIsNotCached(t *testing.T) {
	var g SingleFlight[int]
	boom := errors.New("upstream down")

	if _, _, err := g.Do("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	val, shared, err := g.Do("k", func() (int, error) { return 7, nil })
	if err != nil || val != 7 || shared {
		t.Fatalf("expected fresh call, got val=%d shared=%v err=%v", val, shared, err)
	}
}

func TestSingleFlight_PanicReleasesKey(t *testing.T) {
	var g SingleFlight[int]

	func() {
		defer func() { _ = recover() }()
		_, _, _ = g.Do("k", func() (int, error) { panic("boom") })
	}()

	if g.InFlight() != 0 {
		t.Fatalf("expected key released after panic")
	}
}
