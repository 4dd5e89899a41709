package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/contest"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"
)

type SyncConfig struct {
	MaxWorkers int
}

type SyncMatchesResult struct {
	Total     int       `json:"total"`
	Upcoming  int       `json:"upcoming"`
	Live      int       `json:"live"`
	Completed int       `json:"completed"`
	Excluded  int       `json:"excluded"`
	SyncedAt  time.Time `json:"synced_at"`
	// NextStartAt is the earliest upcoming start, if any.
	NextStartAt *time.Time `json:"next_start_at,omitempty"`
}

type RefreshPointsResult struct {
	LiveMatchCount  int                 `json:"live_match_count"`
	ScoredMatches   int                 `json:"scored_matches"`
	ContestCount    int                 `json:"contest_count"`
	SuccessCount    int                 `json:"success_count"`
	FailedCount     int                 `json:"failed_count"`
	WorkerCount     int                 `json:"worker_count"`
	Tasks           []RefreshTaskResult `json:"tasks"`
	LiveMatchIDs    []string            `json:"live_match_ids"`
	SkippedMatchIDs []string            `json:"skipped_match_ids,omitempty"`
}

type RefreshTaskResult struct {
	ContestID  string `json:"contest_id"`
	MatchID    string `json:"match_id"`
	Status     string `json:"status"`
	Entries    int    `json:"entries"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// SyncService keeps the match snapshot and live contest scores fresh.
type SyncService struct {
	matches  *MatchService
	points   *PointsService
	contests *ContestService
	cfg      SyncConfig
	logger   *logging.Logger
}

func NewSyncService(
	matches *MatchService,
	points *PointsService,
	contests *ContestService,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	return &SyncService{
		matches:  matches,
		points:   points,
		contests: contests,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *SyncService) SyncMatches(ctx context.Context) (SyncMatchesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncMatches")
	defer span.End()

	items, err := s.matches.Refresh(ctx)
	if err != nil {
		return SyncMatchesResult{}, err
	}

	now := s.matches.now().UTC()
	buckets := match.Classify(items, now)
	result := SyncMatchesResult{
		Total:     len(items),
		Upcoming:  len(buckets.Upcoming),
		Live:      len(buckets.Live),
		Completed: len(buckets.Completed),
		SyncedAt:  now,
	}
	result.Excluded = result.Total - result.Upcoming - result.Live - result.Completed
	if len(buckets.Upcoming) > 0 {
		next := buckets.Upcoming[0].StartAt
		result.NextStartAt = &next
	}
	s.logger.InfoContext(ctx, "match sync complete",
		"total", result.Total,
		"upcoming", result.Upcoming,
		"live", result.Live,
		"completed", result.Completed,
		"excluded", result.Excluded,
	)
	return result, nil
}

// RefreshLivePoints rescores every live match, then recalculates the
// contests on those matches on a bounded worker pool.
func (s *SyncService) RefreshLivePoints(ctx context.Context) (RefreshPointsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.RefreshLivePoints")
	defer span.End()

	buckets, err := s.matches.Classified(ctx)
	if err != nil {
		return RefreshPointsResult{}, err
	}

	result := RefreshPointsResult{
		LiveMatchCount: len(buckets.Live),
		LiveMatchIDs:   make([]string, 0, len(buckets.Live)),
	}
	for _, item := range buckets.Live {
		result.LiveMatchIDs = append(result.LiveMatchIDs, item.ID)
	}
	if len(buckets.Live) == 0 {
		return result, nil
	}

	scored, skipped := s.scoreMatches(ctx, result.LiveMatchIDs)
	result.ScoredMatches = len(scored)
	result.SkippedMatchIDs = skipped

	var targets []contest.Contest
	for _, matchID := range scored {
		items, err := s.contests.ListByMatch(ctx, matchID)
		if err != nil {
			return RefreshPointsResult{}, err
		}
		targets = append(targets, items...)
	}
	result.ContestCount = len(targets)
	if len(targets) == 0 {
		return result, nil
	}

	tasks, workerCount, err := s.recalculateContests(ctx, targets)
	if err != nil {
		return RefreshPointsResult{}, err
	}
	result.WorkerCount = workerCount
	result.Tasks = tasks
	for _, task := range tasks {
		if task.Status == refreshStatusSuccess {
			result.SuccessCount++
		} else {
			result.FailedCount++
		}
	}

	s.logger.InfoContext(ctx, "live points refresh complete",
		"live_matches", result.LiveMatchCount,
		"contests", result.ContestCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

// scoreMatches computes points for each match concurrently. Matches whose
// scorecard cannot be scored are skipped and logged.
func (s *SyncService) scoreMatches(ctx context.Context, matchIDs []string) ([]string, []string) {
	var mu sync.Mutex
	scored := make([]string, 0, len(matchIDs))
	var skipped []string

	p := pool.New().WithMaxGoroutines(s.cfg.MaxWorkers)
	for _, matchID := range matchIDs {
		p.Go(func() {
			_, err := s.points.MatchPlayerPoints(ctx, matchID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.WarnContext(ctx, "score live match failed", "match_id", matchID, "error", err)
				skipped = append(skipped, matchID)
				return
			}
			scored = append(scored, matchID)
		})
	}
	p.Wait()

	sort.Strings(scored)
	sort.Strings(skipped)
	return scored, skipped
}

func (s *SyncService) recalculateContests(ctx context.Context, targets []contest.Contest) ([]RefreshTaskResult, int, error) {
	workerCount := s.cfg.MaxWorkers
	if workerCount > len(targets) {
		workerCount = len(targets)
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	results := make(chan RefreshTaskResult, len(targets))
	var workers sync.WaitGroup
	for _, target := range targets {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RefreshTaskResult{ContestID: target.ID, MatchID: target.MatchID}
			recalc, err := s.contests.RecalculateContest(ctx, target.ID)
			if err != nil {
				row.Status = refreshStatusFailed
				row.Message = err.Error()
				s.logger.WarnContext(ctx, "recalculate contest failed", "contest_id", target.ID, "error", err)
			} else {
				row.Status = refreshStatusSuccess
				row.Entries = recalc.UpdateCount
			}
			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			return nil, 0, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := make([]RefreshTaskResult, 0, len(targets))
	for row := range results {
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].ContestID < out[j].ContestID
	})
	return out, workerCount, nil
}

// RunPoller syncs matches and live points on fixed intervals until ctx ends.
func (s *SyncService) RunPoller(ctx context.Context, matchInterval, pointsInterval time.Duration) {
	if matchInterval <= 0 || pointsInterval <= 0 {
		s.logger.WarnContext(ctx, "match poller disabled, intervals must be positive")
		return
	}

	matchTicker := time.NewTicker(matchInterval)
	defer matchTicker.Stop()
	pointsTicker := time.NewTicker(pointsInterval)
	defer pointsTicker.Stop()

	s.pollMatches(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-matchTicker.C:
			s.pollMatches(ctx)
		case <-pointsTicker.C:
			if _, err := s.RefreshLivePoints(ctx); err != nil {
				s.logger.WarnContext(ctx, "poll live points failed", "error", err)
			}
		}
	}
}

func (s *SyncService) pollMatches(ctx context.Context) {
	if _, err := s.SyncMatches(ctx); err != nil {
		s.logger.WarnContext(ctx, "poll matches failed", "error", err)
	}
}
