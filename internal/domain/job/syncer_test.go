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

func newTestSyncer(store Store) *Syncer {
	return NewSyncer(store, logging.NewNop())
}

func TestSyncCreateThenNoop(t *testing.T) {
	store := newFakeStore()
	s := newTestSyncer(store)

	rec := domain.JobRecord{
		SourceID: "a1", Source: "adzuna", Title: "Engineer", Company: "Acme",
	}

	first := s.Sync(context.Background(), []domain.JobRecord{rec})
	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 0, first.Updated)

	second := s.Sync(context.Background(), []domain.JobRecord{rec})
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 1, second.TotalValid, "unchanged records still count as valid")
	assert.Equal(t, 1, store.upserts, "unchanged record must not be rewritten")
}

func TestSyncUpdatesChangedRecord(t *testing.T) {
	store := newFakeStore()
	s := newTestSyncer(store)

	rec := domain.JobRecord{
		SourceID: "a1", Source: "adzuna", Title: "Engineer", Company: "Acme", Salary: "90000",
	}
	s.Sync(context.Background(), []domain.JobRecord{rec})

	rec.Salary = "95000"
	stats := s.Sync(context.Background(), []domain.JobRecord{rec})

	assert.Equal(t, 0, stats.Created)
	assert.Equal(t, 1, stats.Updated)
}

func TestSyncRawJSONChurnDoesNotRewrite(t *testing.T) {
	store := newFakeStore()
	s := newTestSyncer(store)

	rec := domain.JobRecord{
		SourceID: "a1", Source: "adzuna", Title: "Engineer", Company: "Acme",
		RawJSON: map[string]any{"seq": 1},
	}
	s.Sync(context.Background(), []domain.JobRecord{rec})

	rec.RawJSON = map[string]any{"seq": 2}
	stats := s.Sync(context.Background(), []domain.JobRecord{rec})

	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 1, store.upserts)
}

func TestSyncPartialFailureContinues(t *testing.T) {
	store := newFakeStore()
	bad := domain.JobRecord{SourceID: "bad", Source: "adzuna", Title: "Broken", Company: "Acme"}
	good := domain.JobRecord{SourceID: "good", Source: "adzuna", Title: "Fine", Company: "Acme Two"}
	store.upsertErr[bad.Key()] = errors.New("constraint violation")

	s := newTestSyncer(store)
	stats := s.Sync(context.Background(), []domain.JobRecord{bad, good})

	assert.Equal(t, 1, stats.Created)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "adzuna", stats.Errors[0].Provider)
	assert.Contains(t, stats.Errors[0].Message, "constraint violation")

	_, ok := store.rows[good.Key()]
	assert.True(t, ok, "sibling upsert must still land")
}

func TestSyncSkipsSampleRecords(t *testing.T) {
	store := newFakeStore()
	s := newTestSyncer(store)

	stats := s.Sync(context.Background(), []domain.JobRecord{
		{SourceID: "s1", Source: domain.SourceSample, Title: "Placeholder", Company: "Acme"},
		{SourceID: "a1", Source: "adzuna", Title: "Engineer", Company: "Acme"},
	})

	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 1, stats.TotalValid)
	assert.Len(t, store.rows, 1)
}

func TestSyncLookupFailureAbortsCleanly(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("connection refused")
	s := newTestSyncer(store)

	stats := s.Sync(context.Background(), []domain.JobRecord{
		{SourceID: "a1", Source: "adzuna", Title: "Engineer", Company: "Acme"},
	})

	assert.Zero(t, stats.Created)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "database", stats.Errors[0].Provider)
	assert.Zero(t, store.upserts)
}
