package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/talentport/jobsync/internal/domain"
	"github.com/talentport/jobsync/pkg/logging"
)

// Aggregator fans out to every configured provider concurrently, merges the
// results with stored records, and runs the pipeline over the combined set.
// Provider order is fixed at construction and defines dedup precedence after
// stored records.
type Aggregator struct {
	providers []Provider
	store     Store
	pipeline  *Pipeline
	logger    *logging.Logger
	clock     func() time.Time
}

func NewAggregator(providers []Provider, store Store, pipeline *Pipeline, logger *logging.Logger) *Aggregator {
	return &Aggregator{
		providers: providers,
		store:     store,
		pipeline:  pipeline,
		logger:    logger,
		clock:     time.Now,
	}
}

// fetchResult is one settled provider call: either records or an error,
// never both fatal to the run.
type fetchResult struct {
	provider string
	records  []domain.JobRecord
	err      error
}

// Aggregate produces the unified, deduplicated record set for a query. One
// provider failing or timing out never fails the call; its error lands in
// the returned stats instead.
func (a *Aggregator) Aggregate(ctx context.Context, query, location, country string, opts domain.AggregateOptions) ([]domain.JobRecord, domain.SyncStats) {
	stats := domain.SyncStats{
		PerProviderCounts: make(map[string]int),
		StartedAt:         a.clock().UTC(),
	}

	var merged []domain.JobRecord

	// Stored records come first so manual and previously synced jobs win
	// dedup against freshly fetched duplicates.
	if opts.IncludeDatabase {
		stored, err := a.store.FindMany(ctx, Filter{
			Query:    query,
			Location: location,
			Country:  country,
		}, Pagination{})
		if err != nil {
			a.logger.Warn("database lookup failed during aggregation", "err", err)
			stats.Errors = append(stats.Errors, domain.SyncError{
				Provider: "database",
				Message:  err.Error(),
			})
		} else {
			merged = append(merged, stored...)
			stats.PerProviderCounts["database"] = len(stored)
			stats.TotalFetched += len(stored)
		}
	}

	if opts.IncludeExternal {
		for _, settled := range a.fanOut(ctx, query, location, country, opts.Page) {
			if settled.err != nil {
				a.logger.Warn("provider fetch failed",
					"provider", settled.provider, "err", settled.err)
				stats.Errors = append(stats.Errors, domain.SyncError{
					Provider: settled.provider,
					Message:  settled.err.Error(),
				})
				continue
			}
			merged = append(merged, settled.records...)
			stats.PerProviderCounts[settled.provider] = len(settled.records)
			stats.TotalFetched += len(settled.records)
		}
	}

	records, report := a.pipeline.Process(merged)
	stats.TotalDuplicates = report.Duplicates
	stats.TotalValid = len(records)

	if opts.IncludeSample && len(records) == 0 {
		a.logger.Info("all sources empty, falling back to sample records", "query", query)
		records = sampleRecords(query, location, country)
		stats.PerProviderCounts[domain.SourceSample] = len(records)
	}

	stats.FinishedAt = a.clock().UTC()
	return records, stats
}

// fanOut issues one concurrent Fetch per configured provider and waits for
// all of them to settle. Results come back in provider order so downstream
// dedup precedence stays deterministic.
func (a *Aggregator) fanOut(ctx context.Context, query, location, country string, page int) []fetchResult {
	if page < 1 {
		page = 1
	}

	results := make([]fetchResult, len(a.providers))
	var wg sync.WaitGroup

	for i, p := range a.providers {
		if !p.Configured() {
			results[i] = fetchResult{provider: p.Name()}
			a.logger.Debug("provider not configured, skipping", "provider", p.Name())
			continue
		}

		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			// A panicking adapter settles as an error for that provider;
			// it cannot take down the run.
			defer func() {
				if r := recover(); r != nil {
					results[i] = fetchResult{
						provider: p.Name(),
						err:      fmt.Errorf("provider panicked: %v", r),
					}
				}
			}()
			records, err := p.Fetch(ctx, query, location, country, page)
			results[i] = fetchResult{provider: p.Name(), records: records, err: err}
		}(i, p)
	}

	wg.Wait()
	return results
}

// Sources reports the configured/unconfigured state of every provider.
func (a *Aggregator) Sources() []domain.SourceStatus {
	out := make([]domain.SourceStatus, 0, len(a.providers))
	for _, p := range a.providers {
		out = append(out, domain.SourceStatus{Name: p.Name(), Configured: p.Configured()})
	}
	return out
}
