package adzuna

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentport/jobsync/pkg/adzuna"
)

type fakeClient struct {
	jobs []adzuna.Job
	err  error

	gotQuery  string
	gotParams adzuna.SearchParams
}

func (c *fakeClient) SearchJobs(_ context.Context, query string, params adzuna.SearchParams) ([]adzuna.Job, error) {
	c.gotQuery = query
	c.gotParams = params
	return c.jobs, c.err
}

func TestUnconfiguredProviderStaysIdle(t *testing.T) {
	p := NewProvider(nil)

	assert.False(t, p.Configured())

	records, err := p.Fetch(context.Background(), "engineer", "", "us", 1)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchPassesSearchArguments(t *testing.T) {
	client := &fakeClient{}
	p := NewProvider(client)

	_, err := p.Fetch(context.Background(), "software developer", "Oregon", "gb", 3)
	require.NoError(t, err)

	assert.Equal(t, "software developer", client.gotQuery)
	assert.Equal(t, adzuna.SearchParams{Location: "Oregon", Country: "gb", Page: 3}, client.gotParams)
}

func TestFetchNormalizesJobs(t *testing.T) {
	posted := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	client := &fakeClient{jobs: []adzuna.Job{{
		ID:          "4012345678",
		Title:       "Backend Engineer",
		CompanyName: "Acme Corp",
		Location:    "Portland, Oregon",
		URL:         "https://example.com/jobs/4012345678",
		Description: "Build services.",
		SalaryMin:   120000,
		SalaryMax:   150000,
		PostedAt:    posted,
		Raw:         map[string]any{"contract_time": "full_time"},
	}}}

	p := NewProvider(client)
	records, err := p.Fetch(context.Background(), "engineer", "Oregon", "us", 1)

	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "4012345678", rec.SourceID)
	assert.Equal(t, "adzuna", rec.Source)
	assert.Equal(t, "Backend Engineer", rec.Title)
	assert.Equal(t, "Acme Corp", rec.Company)
	assert.Equal(t, "us", rec.Country)
	assert.Equal(t, "120000 - 150000", rec.Salary)
	assert.Equal(t, "https://example.com/jobs/4012345678", rec.ApplyURL)
	assert.True(t, rec.PostedAt.Equal(posted))
	assert.Equal(t, "full_time", rec.RawJSON["contract_time"])
}

func TestFetchPropagatesClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("rate limited")}
	p := NewProvider(client)

	_, err := p.Fetch(context.Background(), "engineer", "", "us", 1)
	assert.ErrorContains(t, err, "rate limited")
}

func TestFormatSalary(t *testing.T) {
	cases := []struct {
		name     string
		min, max float64
		want     string
	}{
		{"range", 120000, 150000, "120000 - 150000"},
		{"identical bounds collapse", 130000, 130000, "130000"},
		{"max only", 0, 150000, "150000"},
		{"min only", 120000, 0, "120000"},
		{"no data stays empty", 0, 0, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatSalary(tc.min, tc.max))
		})
	}
}
