package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/fantasy-cricket/external/anubis"
	"github.com/riskibarqy/fantasy-cricket/external/cricapi"
	"github.com/riskibarqy/fantasy-cricket/external/jobqueue"
	"github.com/riskibarqy/fantasy-cricket/internal/config"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/contest"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	cacherepo "github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-cricket/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

const (
	redisPingTimeout   = 3 * time.Second
	cacheSweepInterval = time.Minute
)

// App holds the wired HTTP server and the background sync loop.
type App struct {
	Server *http.Server

	cfg     config.Config
	logger  *logging.Logger
	syncer  *usecase.SyncService
	closers []func() error
	stop    context.CancelFunc
}

type repositories struct {
	matches  match.Repository
	teams    team.Repository
	contests contest.Repository
	points   scoring.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	bgCtx, stop := context.WithCancel(context.Background())
	a := &App{cfg: cfg, logger: logger, stop: stop}

	sharedCache := a.buildCache(ctx, bgCtx)

	repos, err := a.buildRepositories(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if cfg.CacheEnabled {
		repos.matches = cacherepo.NewMatchRepository(repos.matches, sharedCache, cfg.CacheTTL)
	}

	// A nil *cricapi.Client would be a non-nil MatchProvider.
	var provider usecase.MatchProvider
	if cfg.CricketAPIKey != "" {
		provider = cricapi.NewClient(cricapi.ClientConfig{
			BaseURL:        cfg.CricketAPIBaseURL,
			APIKey:         cfg.CricketAPIKey,
			Timeout:        cfg.CricketAPITimeout,
			MaxRetries:     cfg.CricketAPIMaxRetries,
			MatchesPages:   cfg.CricketAPIMatchesPages,
			Cache:          sharedCache,
			CacheTTL:       cfg.CacheTTL,
			SquadCacheTTL:  cfg.SquadCacheTTL,
			Logger:         logger.With("component", "cricapi"),
			CircuitBreaker: circuitBreakerConfig(cfg.CricketAPICircuit),
		})
	} else {
		logger.Warn("CRICKET_API_KEY not set, serving stored matches only")
	}

	verifier := anubis.NewClient(anubis.ClientConfig{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		AdminRole:      cfg.AnubisAdminRole,
		Timeout:        cfg.AnubisTimeout,
		Cache:          sharedCache,
		CacheTTL:       cfg.CacheTTL,
		CircuitBreaker: circuitBreakerConfig(cfg.AnubisCircuit),
		Logger:         logger.With("component", "anubis"),
	})

	ids := idgen.NewRandomGenerator()
	matchSvc := usecase.NewMatchService(provider, repos.matches, logger)
	pointsSvc := usecase.NewPointsService(provider, scoring.DefaultEngine(), repos.points, repos.teams, logger)
	teamSvc := usecase.NewTeamService(repos.teams, matchSvc, ids)
	contestSvc := usecase.NewContestService(repos.contests, repos.teams, matchSvc, pointsSvc, ids, logger)
	a.syncer = usecase.NewSyncService(matchSvc, pointsSvc, contestSvc, usecase.SyncConfig{
		MaxWorkers: cfg.SyncMaxWorkers,
	}, logger)
	jobs := usecase.NewJobOrchestratorService(a.syncer, a.buildJobQueue(), usecase.JobOrchestratorConfig{
		ScheduleInterval: cfg.JobScheduleInterval,
		LiveInterval:     cfg.JobLiveInterval,
		PreStartLead:     cfg.JobPreStartLead,
	}, logger)

	handler := httpapi.NewHandler(matchSvc, pointsSvc, teamSvc, contestSvc, jobs, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

// RunPoller blocks, syncing matches and live points until ctx ends.
func (a *App) RunPoller(ctx context.Context) {
	a.logger.InfoContext(ctx, "match poller starting",
		"match_interval", a.cfg.MatchSyncInterval.String(),
		"points_interval", a.cfg.LivePointsInterval.String(),
	)
	a.syncer.RunPoller(ctx, a.cfg.MatchSyncInterval, a.cfg.LivePointsInterval)
}

// Close stops background work and releases database and cache connections.
func (a *App) Close() error {
	if a.stop != nil {
		a.stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildCache(ctx, bgCtx context.Context) cache.Cache {
	if !a.cfg.CacheEnabled {
		return cache.Nop{}
	}

	if a.cfg.CacheBackend == config.CacheBackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		store := cache.NewRedisStore(client, a.cfg.RedisPrefix, a.cfg.CacheTTL, a.logger)

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := store.Ping(pingCtx)
		cancel()
		if err == nil {
			a.closers = append(a.closers, store.Close)
			a.logger.Info("redis cache enabled", "addr", a.cfg.RedisAddr)
			return store
		}
		_ = store.Close()
		a.logger.Warn("redis unavailable, falling back to in-process cache", "addr", a.cfg.RedisAddr, "error", err)
	}

	store := cache.NewStore(a.cfg.CacheTTL)
	go sweepCache(bgCtx, store, a.logger)
	return store
}

func sweepCache(ctx context.Context, store *cache.Store, logger *logging.Logger) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				logger.Debug("cache sweep", "removed", removed, "remaining", store.Len())
			}
		}
	}
}

func (a *App) buildRepositories(ctx context.Context) (repositories, error) {
	if a.cfg.StorageDriver != config.StoragePostgres {
		a.logger.Info("using in-memory storage")
		return repositories{
			matches:  memory.NewMatchRepository(nil),
			teams:    memory.NewUserTeamRepository(),
			contests: memory.NewContestRepository(),
			points:   memory.NewPointsRepository(),
		}, nil
	}

	db, err := openDB(ctx, a.cfg)
	if err != nil {
		return repositories{}, err
	}
	a.closers = append(a.closers, db.Close)
	a.logger.Info("using postgres storage", "db_name", dbNameFromURL(a.cfg.DBURL))
	return postgresRepositories(db), nil
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		matches:  postgres.NewMatchRepository(db),
		teams:    postgres.NewUserTeamRepository(db),
		contests: postgres.NewContestRepository(db),
		points:   postgres.NewPointsRepository(db),
	}
}

func (a *App) buildJobQueue() usecase.JobQueue {
	if !a.cfg.QStashEnabled {
		return usecase.NewNoopJobQueue()
	}
	a.logger.Info("qstash job queue enabled", "target", a.cfg.QStashTargetBaseURL)
	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          a.cfg.QStashBaseURL,
		Token:            a.cfg.QStashToken,
		TargetBaseURL:    a.cfg.QStashTargetBaseURL,
		Retries:          a.cfg.QStashRetries,
		InternalJobToken: a.cfg.InternalJobToken,
		CircuitBreaker:   circuitBreakerConfig(a.cfg.QStashCircuit),
	}, a.logger.With("component", "qstash"))
}

func circuitBreakerConfig(c config.CircuitConfig) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.Enabled,
		FailureThreshold: c.FailureCount,
		OpenTimeout:      c.OpenTimeout,
		HalfOpenMaxReq:   c.HalfOpenMaxReq,
	}
}
