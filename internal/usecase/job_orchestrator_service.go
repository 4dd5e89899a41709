package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

const (
	JobPathSyncMatches   = "/v1/internal/jobs/sync-matches"
	JobPathRefreshPoints = "/v1/internal/jobs/refresh-points"

	jobNameSyncMatches   = "sync-matches"
	jobNameRefreshPoints = "refresh-points"

	// jobDedupScope is the id segment of every dedup key; jobs are global.
	jobDedupScope = "all"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

// MatchSyncer is the work each scheduled job performs.
type MatchSyncer interface {
	SyncMatches(ctx context.Context) (SyncMatchesResult, error)
	RefreshLivePoints(ctx context.Context) (RefreshPointsResult, error)
}

type JobOrchestratorConfig struct {
	ScheduleInterval time.Duration
	LiveInterval     time.Duration
	PreStartLead     time.Duration
}

type JobSyncInput struct {
	Force bool
}

type JobSyncResult struct {
	Mode             string               `json:"mode"`
	Matches          *SyncMatchesResult   `json:"matches,omitempty"`
	Points           *RefreshPointsResult `json:"points,omitempty"`
	QueuedCount      int                  `json:"queued_count"`
	QueuedOperations []string             `json:"queued_operations"`
}

// JobOrchestratorService runs sync jobs and schedules the next run on the
// job queue. Match sync runs often while matches are live and backs off
// when nothing is about to start.
type JobOrchestratorService struct {
	syncer MatchSyncer
	queue  JobQueue
	cfg    JobOrchestratorConfig
	logger *logging.Logger
	now    func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	syncer MatchSyncer,
	queue JobQueue,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ScheduleInterval <= 0 {
		cfg.ScheduleInterval = 15 * time.Minute
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = time.Minute
	}
	if cfg.PreStartLead <= 0 {
		cfg.PreStartLead = 15 * time.Minute
	}

	return &JobOrchestratorService{
		syncer: syncer,
		queue:  queue,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Bootstrap queues an immediate match sync that starts the job chain.
func (s *JobOrchestratorService) Bootstrap(ctx context.Context) (JobSyncResult, error) {
	now := s.now().UTC()
	result := JobSyncResult{Mode: "bootstrap", QueuedOperations: make([]string, 0, 1)}
	if err := s.enqueue(ctx, jobNameSyncMatches, JobPathSyncMatches, 0, s.cfg.ScheduleInterval, now); err != nil {
		return JobSyncResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, jobNameSyncMatches)
	return result, nil
}

// RunMatchSync refreshes the match snapshot, then queues the next match
// sync and, when a match is live or about to start, a points refresh.
func (s *JobOrchestratorService) RunMatchSync(ctx context.Context, input JobSyncInput) (JobSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunMatchSync")
	defer span.End()

	synced, err := s.syncer.SyncMatches(ctx)
	if err != nil {
		return JobSyncResult{}, fmt.Errorf("sync matches: %w", err)
	}

	now := s.now().UTC()
	result := JobSyncResult{
		Mode:             "sync-matches",
		Matches:          &synced,
		QueuedOperations: make([]string, 0, 2),
	}

	hasLive := synced.Live > 0
	if hasLive || synced.NextStartAt != nil {
		delay := s.cfg.LiveInterval
		if !hasLive {
			delay = synced.NextStartAt.Add(-s.cfg.PreStartLead).Sub(now)
			if input.Force {
				delay = 0
			} else if delay <= 0 {
				delay = s.cfg.LiveInterval
			}
		}
		if hasLive || delay <= s.cfg.ScheduleInterval {
			if err := s.enqueue(ctx, jobNameRefreshPoints, JobPathRefreshPoints, delay, s.cfg.LiveInterval, now); err != nil {
				return JobSyncResult{}, err
			}
			result.QueuedCount++
			result.QueuedOperations = append(result.QueuedOperations, jobNameRefreshPoints)
		}
	}

	delay := s.nextScheduleDelay(now, hasLive, synced.NextStartAt)
	if err := s.enqueue(ctx, jobNameSyncMatches, JobPathSyncMatches, delay, s.cfg.ScheduleInterval, now); err != nil {
		return JobSyncResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, jobNameSyncMatches)
	return result, nil
}

// RunPointsRefresh rescores live matches and keeps refreshing while any
// match is still live.
func (s *JobOrchestratorService) RunPointsRefresh(ctx context.Context, _ JobSyncInput) (JobSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunPointsRefresh")
	defer span.End()

	refreshed, err := s.syncer.RefreshLivePoints(ctx)
	if err != nil {
		return JobSyncResult{}, fmt.Errorf("refresh live points: %w", err)
	}

	result := JobSyncResult{
		Mode:             "refresh-points",
		Points:           &refreshed,
		QueuedOperations: make([]string, 0, 1),
	}
	if refreshed.LiveMatchCount == 0 {
		return result, nil
	}

	now := s.now().UTC()
	if err := s.enqueue(ctx, jobNameRefreshPoints, JobPathRefreshPoints, s.cfg.LiveInterval, s.cfg.LiveInterval, now); err != nil {
		return JobSyncResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, jobNameRefreshPoints)
	return result, nil
}

func (s *JobOrchestratorService) enqueue(ctx context.Context, name, path string, delay, bucket time.Duration, now time.Time) error {
	dedupID := dedupKey(name, jobDedupScope, now.Add(delay), bucket)
	payload := map[string]any{
		"dispatch_id": dedupID,
	}
	traceID, spanID := traceMetaFromContext(ctx)
	if err := s.queue.Enqueue(ctx, path, payload, delay, dedupID); err != nil {
		s.logger.WarnContext(ctx, "enqueue job failed",
			"job", name,
			"dispatch_id", dedupID,
			"trace_id", traceID,
			"span_id", spanID,
			"error", err,
		)
		return fmt.Errorf("enqueue %s: %w", name, err)
	}
	s.logger.DebugContext(ctx, "job enqueued",
		"job", name,
		"dispatch_id", dedupID,
		"delay", delay.String(),
		"trace_id", traceID,
		"span_id", spanID,
	)
	return nil
}

func dedupKey(prefix, scope string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	scope = sanitizeDedupSegment(scope)
	return prefix + "-" + scope + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}

func (s *JobOrchestratorService) nextScheduleDelay(now time.Time, hasLive bool, nearestUpcoming *time.Time) time.Duration {
	minDelay := time.Minute
	if hasLive {
		return maxDuration(s.cfg.LiveInterval, minDelay)
	}

	if nearestUpcoming != nil {
		startAt := nearestUpcoming.Add(-s.cfg.PreStartLead)
		delay := startAt.Sub(now)
		if delay <= 0 {
			return maxDuration(s.cfg.LiveInterval, minDelay)
		}
		return min(maxDuration(delay, minDelay), s.cfg.ScheduleInterval)
	}

	// Nothing scheduled, poll far less often.
	return maxDuration(s.cfg.ScheduleInterval, 6*time.Hour)
}

func maxDuration(left, right time.Duration) time.Duration {
	if left > right {
		return left
	}
	return right
}
