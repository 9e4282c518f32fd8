// Package service wires the domain together and implements the operations
// the HTTP API exposes.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	jobqueue "github.com/touchline/scoutbase/internal/adapters/mq/queue"
	workerpool "github.com/touchline/scoutbase/internal/adapters/mq/worker"
	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/adapters/repository/memory"
	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/analysis"
	"github.com/touchline/scoutbase/internal/domain/dedupe"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/plan"
	"github.com/touchline/scoutbase/internal/domain/scoring"
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/internal/report"
	"github.com/touchline/scoutbase/pkg/logger"
)

// Service implements the scouting platform operations.
type Service struct {
	mu sync.RWMutex

	// Core components
	stores   repository.Stores
	ranks    repository.RankStore
	deduper  dedupe.Deduper
	queue    jobqueue.Queue
	pool     *workerpool.Pool
	scorer   scoring.Scorer
	analyzer *analysis.Analyzer
	meter    *plan.Meter
	sessions *auth.SessionStore
	renderer *report.Renderer

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	maxPageSize     int
	maxRankingLimit int
	sessionTTL      time.Duration
	weights         scoring.Weights
	jobLatencyMinMS int
	jobLatencyMaxMS int
	verifyBaseURL   string
	reportFooter    string

	// submission id -> job id, for idempotent job lookups
	submissions sync.Map

	// State
	started bool
	startAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStores sets the persistence backend. Defaults to the in-memory stores.
func WithStores(stores repository.Stores) Option {
	return func(s *Service) {
		if stores != nil {
			s.stores = stores
		}
	}
}

// WithWorkerCount sets the number of video-processing workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the processing job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the job idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxPageSize caps list endpoint page sizes.
func WithMaxPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

// WithMaxRankingLimit caps ranking query sizes.
func WithMaxRankingLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRankingLimit = n
		}
	}
}

// WithSessionTTL bounds login session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithWeights sets the percentage weights for the weighted score.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithJobLatencyRange bounds the simulated clip pipeline latency.
func WithJobLatencyRange(minMS, maxMS int) Option {
	return func(s *Service) {
		if minMS > 0 && maxMS >= minMS {
			s.jobLatencyMinMS = minMS
			s.jobLatencyMaxMS = maxMS
		}
	}
}

// WithVerifyBaseURL enables QR verification links on PDF dossiers.
func WithVerifyBaseURL(u string) Option {
	return func(s *Service) {
		s.verifyBaseURL = u
	}
}

// WithReportFooter sets the PDF page footer.
func WithReportFooter(footer string) Option {
	return func(s *Service) {
		s.reportFooter = footer
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       10_000,
		dedupeSize:      100_000,
		maxPageSize:     100,
		maxRankingLimit: 100,
		sessionTTL:      12 * time.Hour,
		weights:         scoring.DefaultWeights(),
		jobLatencyMinMS: 40,
		jobLatencyMaxMS: 120,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting scouting service...")

	if s.stores == nil {
		s.stores = memory.NewStore()
		s.logger.Info(ctx, "using in-memory stores")
	}
	s.ranks = repository.NewTreapRankStore()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	s.scorer = scoring.NewWeightedScorer()
	s.analyzer = analysis.NewAnalyzer()
	s.meter = plan.NewMeter()
	s.sessions = auth.NewSessionStore(auth.WithTTL(s.sessionTTL))
	s.sessions.Start(ctx)
	s.renderer = report.NewRenderer(
		report.WithVerifyBaseURL(s.verifyBaseURL),
		report.WithFooter(s.reportFooter),
	)

	if err := s.rehydrate(ctx); err != nil {
		return fmt.Errorf("rehydrate state: %w", err)
	}

	processor := workerpool.NewClipProcessor(
		s.stores,
		workerpool.WithLatencyRange(s.jobLatencyMinMS, s.jobLatencyMaxMS),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, processor, s.stores)
	s.pool.Start(ctx)

	s.started = true
	s.startAt = time.Now()
	s.logger.Info(ctx, "scouting service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// rehydrate rebuilds the in-memory ranking and quota state from the
// persistent store. With a durable backend a restarted instance keeps
// serving rankings and keeps enforcing the current month's usage.
func (s *Service) rehydrate(ctx context.Context) error {
	orgs, err := s.stores.ListOrgs(ctx)
	if err != nil {
		return fmt.Errorf("list organizations: %w", err)
	}

	period := plan.Period(time.Now())
	for _, org := range orgs {
		for offset := 0; ; {
			players, total, err := s.stores.ListPlayers(ctx, org.ID, model.PlayerFilter{
				Offset: offset,
				Limit:  s.maxPageSize,
			})
			if err != nil {
				return fmt.Errorf("list players for org %s: %w", org.ID, err)
			}
			for _, p := range players {
				s.rescore(ctx, p)
			}
			offset += len(players)
			if len(players) == 0 || offset >= total {
				break
			}
		}

		usage, err := s.stores.QuotaUsage(ctx, org.ID, period)
		if err != nil {
			return fmt.Errorf("load quota usage for org %s: %w", org.ID, err)
		}
		for key, n := range usage {
			s.meter.Seed(org.ID, key, n)
		}
	}

	if len(orgs) > 0 {
		s.logger.Info(ctx, "state rehydrated",
			logger.Int("orgs", len(orgs)),
		)
	}
	return nil
}

// allowQuota checks and counts one unit of (org, key) usage and mirrors the
// counter into the store so it survives restarts. The store write is
// best-effort; the meter stays the enforcement point.
func (s *Service) allowQuota(ctx context.Context, orgID, key string, tier types.Tier) bool {
	if !s.meter.Allow(orgID, key, tier) {
		return false
	}
	if err := s.stores.AddQuotaUsage(ctx, orgID, plan.Period(time.Now()), key, 1); err != nil {
		s.logger.Warn(ctx, "quota usage write failed",
			logger.String("orgID", orgID),
			logger.String("key", key),
			logger.Error(err),
		)
	}
	return true
}

// releaseQuota refunds one unit after a metered operation is rejected
// downstream.
func (s *Service) releaseQuota(ctx context.Context, orgID, key string) {
	s.meter.Release(orgID, key)
	if err := s.stores.AddQuotaUsage(ctx, orgID, plan.Period(time.Now()), key, -1); err != nil {
		s.logger.Warn(ctx, "quota usage write failed",
			logger.String("orgID", orgID),
			logger.String("key", key),
			logger.Error(err),
		)
	}
}

// Stop gracefully shuts down the service, draining in-flight jobs.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scouting service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}
	if q, ok := s.queue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(ctx, "scouting service stopped")
}

// Sessions exposes the session store for the HTTP middleware.
func (s *Service) Sessions() *auth.SessionStore {
	return s.sessions
}
