package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

type stubSyncer struct {
	matches    SyncMatchesResult
	points     RefreshPointsResult
	matchesErr error
	pointsErr  error
}

func (s stubSyncer) SyncMatches(context.Context) (SyncMatchesResult, error) {
	return s.matches, s.matchesErr
}

func (s stubSyncer) RefreshLivePoints(context.Context) (RefreshPointsResult, error) {
	return s.points, s.pointsErr
}

type queuedJob struct {
	path    string
	delay   time.Duration
	dedupID string
}

type recordingJobQueue struct {
	mu   sync.Mutex
	jobs []queuedJob
	err  error
}

func (q *recordingJobQueue) Enqueue(_ context.Context, path string, _ any, delay time.Duration, dedupID string) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, queuedJob{path: path, delay: delay, dedupID: dedupID})
	return nil
}

func newTestOrchestrator(syncer MatchSyncer, queue JobQueue, now time.Time) *JobOrchestratorService {
	svc := NewJobOrchestratorService(syncer, queue, JobOrchestratorConfig{
		ScheduleInterval: 15 * time.Minute,
		LiveInterval:     time.Minute,
		PreStartLead:     15 * time.Minute,
	}, logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestDedupKey_UsesQStashSafeFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.February, 25, 4, 25, 42, 0, time.UTC)
	got := dedupKey("refresh-points", "ipl:2026/1 final", at, 5*time.Minute)

	if strings.Contains(got, ":") {
		t.Fatalf("dedup key must not contain colon, got=%q", got)
	}

	want := "refresh-points-ipl-2026-1-final-20260225T042500Z"
	if got != want {
		t.Fatalf("unexpected dedup key: got=%q want=%q", got, want)
	}
}

func TestSanitizeDedupSegment_EmptyFallback(t *testing.T) {
	t.Parallel()

	if got := sanitizeDedupSegment(" \t "); got != "unknown" {
		t.Fatalf("unexpected sanitize fallback: got=%q want=%q", got, "unknown")
	}
}

func TestJobOrchestrator_RunMatchSync(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)
	startIn := func(d time.Duration) *time.Time {
		at := now.Add(d)
		return &at
	}

	tests := []struct {
		name      string
		synced    SyncMatchesResult
		force     bool
		wantPaths []string
		wantDelay []time.Duration
	}{
		{
			name:      "live match refreshes points every live interval",
			synced:    SyncMatchesResult{Total: 2, Live: 1},
			wantPaths: []string{JobPathRefreshPoints, JobPathSyncMatches},
			wantDelay: []time.Duration{time.Minute, time.Minute},
		},
		{
			name:      "no matches backs off",
			synced:    SyncMatchesResult{},
			wantPaths: []string{JobPathSyncMatches},
			wantDelay: []time.Duration{6 * time.Hour},
		},
		{
			name:      "distant start only reschedules match sync",
			synced:    SyncMatchesResult{Total: 1, Upcoming: 1, NextStartAt: startIn(2 * time.Hour)},
			wantPaths: []string{JobPathSyncMatches},
			wantDelay: []time.Duration{15 * time.Minute},
		},
		{
			name:      "imminent start queues points refresh",
			synced:    SyncMatchesResult{Total: 1, Upcoming: 1, NextStartAt: startIn(10 * time.Minute)},
			wantPaths: []string{JobPathRefreshPoints, JobPathSyncMatches},
			wantDelay: []time.Duration{time.Minute, time.Minute},
		},
		{
			name:      "forced run refreshes immediately",
			synced:    SyncMatchesResult{Total: 1, Upcoming: 1, NextStartAt: startIn(20 * time.Minute)},
			force:     true,
			wantPaths: []string{JobPathRefreshPoints, JobPathSyncMatches},
			wantDelay: []time.Duration{0, 5 * time.Minute},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			queue := &recordingJobQueue{}
			svc := newTestOrchestrator(stubSyncer{matches: tc.synced}, queue, now)

			result, err := svc.RunMatchSync(context.Background(), JobSyncInput{Force: tc.force})
			if err != nil {
				t.Fatalf("run match sync: %v", err)
			}
			if result.QueuedCount != len(tc.wantPaths) {
				t.Fatalf("unexpected queued count: got=%d want=%d", result.QueuedCount, len(tc.wantPaths))
			}
			if len(queue.jobs) != len(tc.wantPaths) {
				t.Fatalf("unexpected jobs: %+v", queue.jobs)
			}
			for idx, job := range queue.jobs {
				if job.path != tc.wantPaths[idx] {
					t.Fatalf("job %d path: got=%s want=%s", idx, job.path, tc.wantPaths[idx])
				}
				if job.delay != tc.wantDelay[idx] {
					t.Fatalf("job %d delay: got=%s want=%s", idx, job.delay, tc.wantDelay[idx])
				}
			}
		})
	}
}

func TestJobOrchestrator_RunPointsRefreshStopsWhenNothingLive(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)

	queue := &recordingJobQueue{}
	svc := newTestOrchestrator(stubSyncer{points: RefreshPointsResult{}}, queue, now)
	result, err := svc.RunPointsRefresh(context.Background(), JobSyncInput{})
	if err != nil {
		t.Fatalf("run points refresh: %v", err)
	}
	if result.QueuedCount != 0 || len(queue.jobs) != 0 {
		t.Fatalf("expected no follow-up job, got=%+v", queue.jobs)
	}

	queue = &recordingJobQueue{}
	svc = newTestOrchestrator(stubSyncer{points: RefreshPointsResult{LiveMatchCount: 1}}, queue, now)
	if _, err := svc.RunPointsRefresh(context.Background(), JobSyncInput{}); err != nil {
		t.Fatalf("run points refresh: %v", err)
	}
	if len(queue.jobs) != 1 || queue.jobs[0].path != JobPathRefreshPoints {
		t.Fatalf("expected one refresh job, got=%+v", queue.jobs)
	}
	if want := "refresh-points-all-20260410T120100Z"; queue.jobs[0].dedupID != want {
		t.Fatalf("unexpected dedup id: got=%s want=%s", queue.jobs[0].dedupID, want)
	}
}

func TestJobOrchestrator_PropagatesFailures(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)

	syncErr := errors.New("provider down")
	svc := newTestOrchestrator(stubSyncer{matchesErr: syncErr}, &recordingJobQueue{}, now)
	if _, err := svc.RunMatchSync(context.Background(), JobSyncInput{}); !errors.Is(err, syncErr) {
		t.Fatalf("expected sync error, got=%v", err)
	}

	queueErr := errors.New("queue rejected")
	svc = newTestOrchestrator(stubSyncer{}, &recordingJobQueue{err: queueErr}, now)
	if _, err := svc.Bootstrap(context.Background()); !errors.Is(err, queueErr) {
		t.Fatalf("expected queue error, got=%v", err)
	}
}
