package jooble

import (
	"context"

	"github.com/talentport/jobsync/internal/domain"
	jobdomain "github.com/talentport/jobsync/internal/domain/job"
	"github.com/talentport/jobsync/pkg/jooble"
)

// searchClient describes the subset of the Jooble client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, query string, params jooble.SearchParams) ([]jooble.Job, error)
}

// Provider implements job.Provider using the Jooble API. A nil client means
// no API key was configured.
type Provider struct {
	client searchClient
}

// NewProvider builds a Jooble provider
func NewProvider(client searchClient) *Provider {
	return &Provider{client: client}
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return "jooble"
}

// Configured reports whether an API key was supplied
func (p *Provider) Configured() bool {
	return p != nil && p.client != nil
}

// Fetch queries Jooble and returns normalized records. Jooble has no country
// segment in its API; location carries the geographic filter and the country
// tag is recorded as requested.
func (p *Provider) Fetch(ctx context.Context, query, location, country string, page int) ([]domain.JobRecord, error) {
	if !p.Configured() {
		return nil, nil
	}

	respJobs, err := p.client.SearchJobs(ctx, query, jooble.SearchParams{
		Location: location,
		Page:     page,
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.JobRecord, 0, len(respJobs))
	for _, j := range respJobs {
		out = append(out, domain.JobRecord{
			SourceID:    j.ID,
			Source:      p.Name(),
			Title:       j.Title,
			Company:     j.Company,
			Location:    j.Location,
			Country:     country,
			Description: j.Snippet,
			Salary:      j.Salary,
			ApplyURL:    j.Link,
			PostedAt:    j.Updated,
			RawJSON:     j.Raw,
		})
	}

	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)
