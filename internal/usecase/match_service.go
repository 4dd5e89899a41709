package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// MatchService serves classified match lists. Provider results are persisted
// as a snapshot that is served when the provider is unavailable.
type MatchService struct {
	provider MatchProvider
	repo     match.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchService(provider MatchProvider, repo match.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		provider: provider,
		repo:     repo,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *MatchService) ListUpcoming(ctx context.Context) ([]match.Match, error) {
	return s.List(ctx, match.BucketUpcoming)
}

func (s *MatchService) ListLive(ctx context.Context) ([]match.Match, error) {
	return s.List(ctx, match.BucketLive)
}

func (s *MatchService) ListCompleted(ctx context.Context) ([]match.Match, error) {
	return s.List(ctx, match.BucketCompleted)
}

func (s *MatchService) List(ctx context.Context, bucket match.Bucket) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	buckets, err := s.Classified(ctx)
	if err != nil {
		return nil, err
	}
	return buckets.Get(bucket), nil
}

// Classified fetches every known match and splits it into lifecycle buckets
// at the current time.
func (s *MatchService) Classified(ctx context.Context) (match.Buckets[match.Match], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Classified")
	defer span.End()

	items, err := s.loadMatches(ctx)
	if err != nil {
		return match.Buckets[match.Match]{}, err
	}
	return match.Classify(items, s.now().UTC()), nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	if s.provider != nil {
		item, err := s.provider.GetMatch(ctx, matchID)
		if err == nil {
			item.SyncedAt = s.now().UTC()
			s.persist(ctx, []match.Match{item})
			return item, nil
		}
		if errors.Is(err, ErrNotFound) {
			return match.Match{}, err
		}
		s.logger.WarnContext(ctx, "fetch match from provider failed, using snapshot", "match_id", matchID, "error", err)

		item, exists, repoErr := s.repo.GetByID(ctx, matchID)
		if repoErr != nil || !exists {
			return match.Match{}, fmt.Errorf("%w: fetch match %s: %v", ErrDependencyUnavailable, matchID, err)
		}
		return item, nil
	}

	item, exists, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match snapshot: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

// Bucket reports which lifecycle bucket matchID falls in now.
func (s *MatchService) Bucket(ctx context.Context, matchID string) (match.Match, match.Bucket, bool, error) {
	item, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, "", false, err
	}
	bucket, ok := item.Classify(s.now().UTC())
	return item, bucket, ok, nil
}

// GetScorecard fetches the scorecard and the bucket its match falls in now.
// An excluded match reports an empty bucket.
func (s *MatchService) GetScorecard(ctx context.Context, matchID string) (ExternalScorecard, match.Bucket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetScorecard", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return ExternalScorecard{}, "", fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return ExternalScorecard{}, "", fmt.Errorf("%w: cricket data provider is not configured", ErrDependencyUnavailable)
	}

	card, err := s.provider.GetScorecard(ctx, matchID)
	if err != nil {
		return ExternalScorecard{}, "", err
	}
	now := s.now().UTC()
	card.Match.SyncedAt = now
	s.persist(ctx, []match.Match{card.Match})
	bucket, _ := card.Match.Classify(now)
	return card, bucket, nil
}

func (s *MatchService) GetSquad(ctx context.Context, matchID string) (player.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetSquad", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return player.Squad{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return player.Squad{}, fmt.Errorf("%w: cricket data provider is not configured", ErrDependencyUnavailable)
	}

	return s.provider.GetSquad(ctx, matchID)
}

// Refresh pulls the match list from the provider and persists it.
func (s *MatchService) Refresh(ctx context.Context) ([]match.Match, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("%w: cricket data provider is not configured", ErrDependencyUnavailable)
	}

	items, err := s.provider.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch matches from provider: %w", err)
	}
	syncedAt := s.now().UTC()
	for idx := range items {
		items[idx].SyncedAt = syncedAt
	}
	if err := s.repo.UpsertMany(ctx, items); err != nil {
		return nil, fmt.Errorf("persist match snapshot: %w", err)
	}
	return items, nil
}

func (s *MatchService) loadMatches(ctx context.Context) ([]match.Match, error) {
	if s.provider == nil {
		items, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list match snapshot: %w", err)
		}
		return items, nil
	}

	items, err := s.provider.ListMatches(ctx)
	if err == nil {
		syncedAt := s.now().UTC()
		for idx := range items {
			items[idx].SyncedAt = syncedAt
		}
		s.persist(ctx, items)
		return items, nil
	}

	s.logger.WarnContext(ctx, "fetch matches from provider failed, using snapshot", "error", err)
	snapshot, repoErr := s.repo.List(ctx)
	if repoErr != nil {
		return nil, fmt.Errorf("%w: fetch matches: %v", ErrDependencyUnavailable, err)
	}
	if len(snapshot) == 0 {
		return nil, fmt.Errorf("%w: fetch matches: %v", ErrDependencyUnavailable, err)
	}
	return snapshot, nil
}

func (s *MatchService) persist(ctx context.Context, items []match.Match) {
	if len(items) == 0 {
		return
	}
	if err := s.repo.UpsertMany(ctx, items); err != nil {
		s.logger.WarnContext(ctx, "persist match snapshot failed", "count", len(items), "error", err)
	}
}
