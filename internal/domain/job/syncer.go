package job

import (
	"context"

	"github.com/talentport/jobsync/internal/domain"
	"github.com/talentport/jobsync/pkg/logging"
)

// Syncer writes a deduplicated record set into the store. Upserts are
// idempotent per (source, sourceId): re-syncing an unchanged batch writes
// nothing.
type Syncer struct {
	store  Store
	logger *logging.Logger
}

func NewSyncer(store Store, logger *logging.Logger) *Syncer {
	return &Syncer{store: store, logger: logger}
}

// Sync upserts records one at a time so a single bad row cannot abort its
// siblings. Sample records never reach the store. The returned stats carry
// created/updated counts and per-record failures.
func (s *Syncer) Sync(ctx context.Context, records []domain.JobRecord) domain.SyncStats {
	stats := domain.SyncStats{
		PerProviderCounts: make(map[string]int),
	}

	existing, err := s.lookupExisting(ctx, records)
	if err != nil {
		s.logger.Error("failed to load existing rows before sync", "err", err)
		stats.Errors = append(stats.Errors, domain.SyncError{
			Provider: "database",
			Message:  err.Error(),
		})
		return stats
	}

	for _, rec := range records {
		if rec.Source == domain.SourceSample {
			continue
		}
		stats.TotalValid++

		prev, found := existing[rec.Key()]
		if found && unchanged(prev, rec) {
			continue
		}

		if err := s.store.Upsert(ctx, rec); err != nil {
			s.logger.Warn("upsert failed, skipping record",
				"source", rec.Source, "sourceId", rec.SourceID, "err", err)
			stats.Errors = append(stats.Errors, domain.SyncError{
				Provider: rec.Source,
				Message:  err.Error(),
			})
			continue
		}

		if found {
			stats.Updated++
		} else {
			stats.Created++
		}
		stats.PerProviderCounts[rec.Source]++
	}

	return stats
}

func (s *Syncer) lookupExisting(ctx context.Context, records []domain.JobRecord) (map[domain.JobKey]domain.JobRecord, error) {
	keys := make([]domain.JobKey, 0, len(records))
	for _, rec := range records {
		if rec.Source == domain.SourceSample {
			continue
		}
		keys = append(keys, rec.Key())
	}
	if len(keys) == 0 {
		return map[domain.JobKey]domain.JobRecord{}, nil
	}

	rows, err := s.store.FindMany(ctx, Filter{Keys: keys}, Pagination{})
	if err != nil {
		return nil, err
	}

	existing := make(map[domain.JobKey]domain.JobRecord, len(rows))
	for _, row := range rows {
		existing[row.Key()] = row
	}
	return existing, nil
}

// unchanged compares the normalized fields only; RawJSON churn alone does not
// force a rewrite.
func unchanged(a, b domain.JobRecord) bool {
	return a.Title == b.Title &&
		a.Company == b.Company &&
		a.Location == b.Location &&
		a.Country == b.Country &&
		a.Description == b.Description &&
		a.Salary == b.Salary &&
		a.ApplyURL == b.ApplyURL &&
		a.PostedAt.Equal(b.PostedAt)
}
