package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/talentport/jobsync/internal/domain"
	"github.com/talentport/jobsync/pkg/logging"
)

// ErrSyncInProgress reports that a sync was requested while one was already
// in flight. Callers treat it as "skipped", not as a failure.
var ErrSyncInProgress = errors.New("sync already in progress")

// SchedulerConfig carries the recurring-sync settings.
type SchedulerConfig struct {
	Interval time.Duration
	Query    string
	Location string
	Country  string
}

// Scheduler owns the recurring sync timer and the engine-wide run-exclusion
// gate. Manual triggers and scheduled ticks share the same gate, so at most
// one aggregate-then-persist run is in flight at any time.
type Scheduler struct {
	aggregator *Aggregator
	syncer     *Syncer
	cfg        SchedulerConfig
	logger     *logging.Logger
	clock      func() time.Time

	cron    *cron.Cron
	running atomic.Bool

	mu       sync.RWMutex
	started  bool
	lastSync *domain.SyncStats
}

func NewScheduler(aggregator *Aggregator, syncer *Syncer, cfg SchedulerConfig, logger *logging.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	return &Scheduler{
		aggregator: aggregator,
		syncer:     syncer,
		cfg:        cfg,
		logger:     logger,
		clock:      time.Now,
		cron:       cron.New(),
	}
}

// Start registers the recurring sync and begins ticking. Idempotent.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.cfg.Interval)
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("scheduler: register cron func: %w", err)
	}

	s.cron.Start()
	s.started = true
	s.logger.Info("sync scheduler started", "interval", s.cfg.Interval.String())

	// Run once immediately so the store is populated without waiting for
	// the first tick.
	go s.tick()

	return nil
}

// Stop cancels the recurring timer. An in-flight run is allowed to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cron.Stop()
	s.started = false
	s.logger.Info("sync scheduler stopped")
}

func (s *Scheduler) tick() {
	if _, err := s.PerformFullSync(context.Background()); err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			s.logger.Info("sync already in progress, skipping scheduled tick")
			return
		}
		s.logger.Error("scheduled sync failed", "err", err)
	}
}

// PerformFullSync runs one aggregate-then-persist cycle. Returns
// ErrSyncInProgress when the gate is held by another run. Provider and
// per-record failures land inside the returned stats; a panic escaping the
// pipeline is recovered, recorded as a failed run, and never crashes the
// process.
func (s *Scheduler) PerformFullSync(ctx context.Context) (stats domain.SyncStats, err error) {
	if !s.running.CompareAndSwap(false, true) {
		return domain.SyncStats{}, ErrSyncInProgress
	}

	startedAt := s.clock().UTC()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("sync run panicked", "panic", r)
			stats = domain.SyncStats{
				PerProviderCounts: map[string]int{},
				StartedAt:         startedAt,
				FinishedAt:        s.clock().UTC(),
				Errors: []domain.SyncError{
					{Provider: "engine", Message: fmt.Sprintf("sync run failed: %v", r)},
				},
			}
			err = nil
		}
		s.setLastSync(stats)
		s.running.Store(false)
	}()

	s.logger.Info("sync run starting", "query", s.cfg.Query, "country", s.cfg.Country)

	records, aggStats := s.aggregator.Aggregate(ctx, s.cfg.Query, s.cfg.Location, s.cfg.Country, domain.AggregateOptions{
		IncludeExternal: true,
		IncludeDatabase: true,
		Page:            1,
	})

	syncStats := s.syncer.Sync(ctx, records)

	stats = aggStats
	stats.Created = syncStats.Created
	stats.Updated = syncStats.Updated
	stats.Errors = append(stats.Errors, syncStats.Errors...)
	stats.FinishedAt = s.clock().UTC()

	s.logger.Info("sync run finished",
		"fetched", stats.TotalFetched,
		"valid", stats.TotalValid,
		"duplicates", stats.TotalDuplicates,
		"created", stats.Created,
		"updated", stats.Updated,
		"errors", len(stats.Errors),
		"took", stats.FinishedAt.Sub(stats.StartedAt).String())

	return stats, nil
}

// Status is safe to call at any time, including mid-run.
func (s *Scheduler) Status() (bool, *domain.SyncStats, []domain.SourceStatus) {
	s.mu.RLock()
	last := s.lastSync
	s.mu.RUnlock()
	return s.running.Load(), last, s.aggregator.Sources()
}

func (s *Scheduler) setLastSync(stats domain.SyncStats) {
	s.mu.Lock()
	s.lastSync = &stats
	s.mu.Unlock()
}
