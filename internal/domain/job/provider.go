package job

import (
	"context"

	"github.com/talentport/jobsync/internal/domain"
)

// Provider represents an external job data source (Adzuna, Jooble, etc.)
type Provider interface {
	// e.g. "adzuna" or "jooble"
	Name() string

	// Configured reports whether the provider has usable credentials. An
	// unconfigured provider is idle, not broken: the aggregator skips it
	// without recording an error.
	Configured() bool

	// Fetch returns normalized records for one page of a query. The call
	// must carry its own timeout via the provider's HTTP client.
	Fetch(ctx context.Context, query, location, country string, page int) ([]domain.JobRecord, error)
}
