package adzuna

import (
	"context"
	"fmt"

	"github.com/talentport/jobsync/internal/domain"
	jobdomain "github.com/talentport/jobsync/internal/domain/job"
	"github.com/talentport/jobsync/pkg/adzuna"
)

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, query string, params adzuna.SearchParams) ([]adzuna.Job, error)
}

// Provider implements job.Provider using the Adzuna API. A nil client means
// credentials were absent at startup; the provider then reports itself
// unconfigured and fetches nothing.
type Provider struct {
	client searchClient
}

// NewProvider builds an Adzuna provider
func NewProvider(client searchClient) *Provider {
	return &Provider{client: client}
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return "adzuna"
}

// Configured reports whether credentials were supplied
func (p *Provider) Configured() bool {
	return p != nil && p.client != nil
}

// Fetch queries Adzuna and returns normalized records
func (p *Provider) Fetch(ctx context.Context, query, location, country string, page int) ([]domain.JobRecord, error) {
	if !p.Configured() {
		return nil, nil
	}

	respJobs, err := p.client.SearchJobs(ctx, query, adzuna.SearchParams{
		Location: location,
		Country:  country,
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
			Company:     j.CompanyName,
			Location:    j.Location,
			Country:     country,
			Description: j.Description,
			Salary:      formatSalary(j.SalaryMin, j.SalaryMax),
			ApplyURL:    j.URL,
			PostedAt:    j.PostedAt,
			RawJSON:     j.Raw,
		})
	}

	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)

// formatSalary keeps Adzuna's numeric bounds as display text. Records with
// no salary data keep an empty string rather than "0".
func formatSalary(min, max float64) string {
	switch {
	case min > 0 && max > 0 && min != max:
		return fmt.Sprintf("%.0f - %.0f", min, max)
	case max > 0:
		return fmt.Sprintf("%.0f", max)
	case min > 0:
		return fmt.Sprintf("%.0f", min)
	default:
		return ""
	}
}
