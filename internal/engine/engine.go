package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/talentport/jobsync/internal/domain"
	"github.com/talentport/jobsync/internal/domain/job"
	"github.com/talentport/jobsync/pkg/cache"
	"github.com/talentport/jobsync/pkg/logging"
	pkgneo4j "github.com/talentport/jobsync/pkg/neo4j"
)

const defaultSearchLimit = 20

// SearchParams describe one read-path query. Flags default to external +
// database + sample when the zero value is used via NormalizedSearchParams.
type SearchParams struct {
	Query           string
	Location        string
	Country         string
	Page            int
	Limit           int
	IncludeExternal bool
	IncludeDatabase bool
	IncludeSample   bool
}

// DefaultSearchParams returns the flags a plain listing query uses.
func DefaultSearchParams(query, location, country string) SearchParams {
	return SearchParams{
		Query:           query,
		Location:        location,
		Country:         country,
		Page:            1,
		IncludeExternal: true,
		IncludeDatabase: true,
		IncludeSample:   true,
	}
}

// Engine is the control surface the rest of the application consumes: the
// scheduler operations plus the cache-fronted search path and the
// administrative cache/store operations.
type Engine struct {
	logger     *logging.Logger
	aggregator *job.Aggregator
	scheduler  *job.Scheduler
	store      job.Store
	cache      cache.Cache
	cacheTTL   time.Duration

	neo4jClient *pkgneo4j.Client
}

func newEngine(
	logger *logging.Logger,
	aggregator *job.Aggregator,
	scheduler *job.Scheduler,
	store job.Store,
	c cache.Cache,
	cacheTTL time.Duration,
	neo4jClient *pkgneo4j.Client,
) *Engine {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Engine{
		logger:      logger,
		aggregator:  aggregator,
		scheduler:   scheduler,
		store:       store,
		cache:       c,
		cacheTTL:    cacheTTL,
		neo4jClient: neo4jClient,
	}
}

// Start begins the recurring sync schedule
func (e *Engine) Start() error {
	return e.scheduler.Start()
}

// Stop cancels the recurring schedule; an in-flight run finishes
func (e *Engine) Stop() {
	e.scheduler.Stop()
}

// PerformFullSync triggers one sync run. Returns job.ErrSyncInProgress when
// a run is already in flight.
func (e *Engine) PerformFullSync(ctx context.Context) (domain.SyncStats, error) {
	return e.scheduler.PerformFullSync(ctx)
}

// Status returns a non-blocking snapshot of the engine state.
func (e *Engine) Status(ctx context.Context) domain.EngineStatus {
	isRunning, lastSync, sources := e.scheduler.Status()

	status := domain.EngineStatus{
		IsRunning: isRunning,
		LastSync:  lastSync,
		Sources:   sources,
	}

	if n, err := e.store.Count(ctx, job.Filter{}); err != nil {
		e.logger.Warn("stored job count unavailable", "err", err)
	} else {
		status.StoredJobs = n
	}

	return status
}

// Search answers a listing query through the cache. A miss aggregates live,
// caches the page, and reports total/hasMore over the deduplicated set.
func (e *Engine) Search(ctx context.Context, params SearchParams) (domain.SearchResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = defaultSearchLimit
	}

	key := searchCacheKey(params)

	var cached domain.SearchResult
	err := e.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		e.logger.Warn("cache read failed, falling through", "key", key, "err", err)
	}

	records, stats := e.aggregator.Aggregate(ctx, params.Query, params.Location, params.Country, domain.AggregateOptions{
		IncludeExternal: params.IncludeExternal,
		IncludeDatabase: params.IncludeDatabase,
		IncludeSample:   params.IncludeSample,
		Page:            params.Page,
	})
	if len(stats.Errors) > 0 {
		e.logger.Warn("search completed with degraded sources",
			"failed", len(stats.Errors), "records", len(records))
	}

	total := len(records)
	pageRecords := records
	if total > params.Limit {
		pageRecords = records[:params.Limit]
	}

	result := domain.SearchResult{
		Records: pageRecords,
		Total:   total,
		HasMore: total > params.Limit,
	}

	if err := e.cache.Set(ctx, key, result, e.cacheTTL); err != nil {
		e.logger.Warn("cache write failed", "key", key, "err", err)
	}

	return result, nil
}

// ClearCache flushes the read-path cache only; the backing store is untouched.
func (e *Engine) ClearCache(ctx context.Context) error {
	return e.cache.Clear(ctx)
}

// CacheStats exposes the cache's size and hit/miss counters.
func (e *Engine) CacheStats(ctx context.Context) (cache.Stats, error) {
	return e.cache.Stats(ctx)
}

// ClearJobs is the administrative delete: it removes all stored rows for one
// source. Nothing else ever hard-deletes persisted records.
func (e *Engine) ClearJobs(ctx context.Context, source string) (int64, error) {
	if source == "" {
		return 0, fmt.Errorf("engine: clear requires a source")
	}

	deleted, err := e.store.DeleteMany(ctx, job.Filter{Sources: []string{source}})
	if err != nil {
		return 0, err
	}

	e.logger.Info("cleared stored jobs", "source", source, "deleted", deleted)
	return deleted, nil
}

// Shutdown stops the schedule and releases the cache and store connections.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.scheduler.Stop()

	var errs []error
	if err := e.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close cache: %w", err))
	}
	if e.neo4jClient != nil {
		if err := e.neo4jClient.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close neo4j: %w", err))
		}
	}
	return errors.Join(errs...)
}

// searchCacheKey derives the cache key from every parameter that changes the
// answer, so distinct queries never collide.
func searchCacheKey(p SearchParams) string {
	return fmt.Sprintf("jobs:search:%s|%s|%s|p%d|l%d|e%t|d%t|s%t",
		strings.ToLower(strings.TrimSpace(p.Query)),
		strings.ToLower(strings.TrimSpace(p.Location)),
		strings.ToLower(strings.TrimSpace(p.Country)),
		p.Page, p.Limit,
		p.IncludeExternal, p.IncludeDatabase, p.IncludeSample)
}
