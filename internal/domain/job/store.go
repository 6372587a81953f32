package job

import (
	"context"

	"github.com/talentport/jobsync/internal/domain"
)

// Filter narrows Store reads and deletes. Zero-value fields are ignored.
type Filter struct {
	Query    string
	Location string
	Country  string
	Sources  []string
	Keys     []domain.JobKey
}

// Pagination bounds a FindMany call. Zero Limit means no bound.
type Pagination struct {
	Limit  int
	Offset int
}

// Store is the narrow persistence boundary for job rows. One row per
// (source, sourceId); each call is assumed transactional on its own, with no
// cross-call transactions.
type Store interface {
	Count(ctx context.Context, filter Filter) (int64, error)

	FindMany(ctx context.Context, filter Filter, page Pagination) ([]domain.JobRecord, error)

	// Upsert inserts or updates one row keyed by (source, sourceId).
	Upsert(ctx context.Context, record domain.JobRecord) error

	DeleteMany(ctx context.Context, filter Filter) (int64, error)
}
