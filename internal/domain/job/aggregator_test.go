package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentport/jobsync/internal/domain"
	"github.com/talentport/jobsync/pkg/logging"
)

func newTestAggregator(store Store, providers ...Provider) *Aggregator {
	return NewAggregator(providers, store, newTestPipeline(), logging.NewNop())
}

func extOpts() domain.AggregateOptions {
	return domain.AggregateOptions{IncludeExternal: true, Page: 1}
}

func TestAggregateCollectsAllProviders(t *testing.T) {
	a := newTestAggregator(newFakeStore(),
		&fakeProvider{name: "adzuna", configured: true, records: []domain.JobRecord{
			{SourceID: "a1", Source: "adzuna", Title: "Engineer", Company: "Acme"},
		}},
		&fakeProvider{name: "jooble", configured: true, records: []domain.JobRecord{
			{SourceID: "j1", Source: "jooble", Title: "Designer", Company: "Initech"},
		}},
	)

	records, stats := a.Aggregate(context.Background(), "engineer", "", "us", extOpts())

	assert.Len(t, records, 2)
	assert.Equal(t, 2, stats.TotalFetched)
	assert.Equal(t, 2, stats.TotalValid)
	assert.Empty(t, stats.Errors)
	assert.Equal(t, 1, stats.PerProviderCounts["adzuna"])
	assert.Equal(t, 1, stats.PerProviderCounts["jooble"])
}

func TestAggregatePartialFailure(t *testing.T) {
	a := newTestAggregator(newFakeStore(),
		&fakeProvider{name: "adzuna", configured: true, err: errors.New("upstream timeout")},
		&fakeProvider{name: "jooble", configured: true, records: []domain.JobRecord{
			{SourceID: "j1", Source: "jooble", Title: "Engineer", Company: "Acme"},
		}},
	)

	records, stats := a.Aggregate(context.Background(), "engineer", "", "us", extOpts())

	require.Len(t, records, 1)
	assert.Equal(t, "j1", records[0].SourceID)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "adzuna", stats.Errors[0].Provider)
	assert.Contains(t, stats.Errors[0].Message, "upstream timeout")
}

func TestAggregateProviderPanicBecomesError(t *testing.T) {
	a := newTestAggregator(newFakeStore(),
		&fakeProvider{name: "adzuna", configured: true, panicMsg: "boom"},
		&fakeProvider{name: "jooble", configured: true, records: []domain.JobRecord{
			{SourceID: "j1", Source: "jooble", Title: "Engineer", Company: "Acme"},
		}},
	)

	records, stats := a.Aggregate(context.Background(), "engineer", "", "us", extOpts())

	assert.Len(t, records, 1)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "adzuna", stats.Errors[0].Provider)
	assert.Contains(t, stats.Errors[0].Message, "boom")
}

func TestAggregateSkipsUnconfiguredProvider(t *testing.T) {
	idle := &fakeProvider{name: "adzuna", configured: false}
	a := newTestAggregator(newFakeStore(), idle,
		&fakeProvider{name: "jooble", configured: true, records: []domain.JobRecord{
			{SourceID: "j1", Source: "jooble", Title: "Engineer", Company: "Acme"},
		}},
	)

	records, stats := a.Aggregate(context.Background(), "engineer", "", "us", extOpts())

	assert.Len(t, records, 1)
	assert.Empty(t, stats.Errors, "missing credentials is idle, not an error")
	assert.Zero(t, idle.calls.Load())
}

func TestAggregateStoredRecordsTakePrecedence(t *testing.T) {
	store := newFakeStore()
	store.seed(domain.JobRecord{
		SourceID: "db1", Source: domain.SourceManual, Title: "Engineer", Company: "Acme",
	})

	a := newTestAggregator(store,
		&fakeProvider{name: "adzuna", configured: true, records: []domain.JobRecord{
			{SourceID: "1", Source: "adzuna", Title: "Engineer", Company: "Acme"},
		}},
		&fakeProvider{name: "jooble", configured: true, records: []domain.JobRecord{
			{SourceID: "x2", Source: "jooble", Title: "engineer", Company: " ACME "},
		}},
	)

	opts := extOpts()
	opts.IncludeDatabase = true
	records, stats := a.Aggregate(context.Background(), "engineer", "", "us", opts)

	require.Len(t, records, 1)
	assert.Equal(t, "db1", records[0].SourceID)
	assert.Equal(t, 2, stats.TotalDuplicates)
	assert.Equal(t, 3, stats.TotalFetched)
}

func TestAggregateSampleFallback(t *testing.T) {
	a := newTestAggregator(newFakeStore(),
		&fakeProvider{name: "adzuna", configured: false},
		&fakeProvider{name: "jooble", configured: false},
	)

	opts := extOpts()
	opts.IncludeDatabase = true
	opts.IncludeSample = true
	records, stats := a.Aggregate(context.Background(), "engineer", "", "us", opts)

	require.NotEmpty(t, records)
	for _, rec := range records {
		assert.Equal(t, domain.SourceSample, rec.Source)
	}
	assert.Zero(t, stats.TotalValid, "sample fallback does not count as real results")
}

func TestAggregateNoSampleWhenResultsExist(t *testing.T) {
	a := newTestAggregator(newFakeStore(),
		&fakeProvider{name: "adzuna", configured: true, records: []domain.JobRecord{
			{SourceID: "a1", Source: "adzuna", Title: "Engineer", Company: "Acme"},
		}},
	)

	opts := extOpts()
	opts.IncludeSample = true
	records, _ := a.Aggregate(context.Background(), "engineer", "", "us", opts)

	require.Len(t, records, 1)
	assert.Equal(t, "adzuna", records[0].Source)
}

func TestAggregateDatabaseFailureIsRecorded(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("connection refused")

	a := newTestAggregator(store,
		&fakeProvider{name: "adzuna", configured: true, records: []domain.JobRecord{
			{SourceID: "a1", Source: "adzuna", Title: "Engineer", Company: "Acme"},
		}},
	)

	opts := extOpts()
	opts.IncludeDatabase = true
	records, stats := a.Aggregate(context.Background(), "engineer", "", "us", opts)

	assert.Len(t, records, 1)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "database", stats.Errors[0].Provider)
}

func TestSourcesReportsConfiguredState(t *testing.T) {
	a := newTestAggregator(newFakeStore(),
		&fakeProvider{name: "adzuna", configured: true},
		&fakeProvider{name: "jooble", configured: false},
	)

	sources := a.Sources()

	require.Len(t, sources, 2)
	assert.Equal(t, domain.SourceStatus{Name: "adzuna", Configured: true}, sources[0])
	assert.Equal(t, domain.SourceStatus{Name: "jooble", Configured: false}, sources[1])
}
