package domain

import (
	"time"
)

// Source tags for records that do not come from an external provider.
const (
	SourceManual = "manual"
	SourceSample = "sample"
)

// JobKey identifies a persisted job row. Unique when both parts are non-empty.
type JobKey struct {
	Source   string
	SourceID string
}

// JobRecord is the canonical job posting shape every provider normalizes into.
// RawJSON holds the untouched provider payload for audit/debug and is never
// parsed downstream of the adapter that captured it.
type JobRecord struct {
	SourceID    string         `json:"sourceId"`
	Source      string         `json:"source"`
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Location    string         `json:"location"`
	Country     string         `json:"country"`
	Description string         `json:"description"`
	Salary      string         `json:"salary,omitempty"`
	ApplyURL    string         `json:"applyUrl,omitempty"`
	PostedAt    time.Time      `json:"postedAt,omitempty"`
	RawJSON     map[string]any `json:"rawJson,omitempty"`
	Fingerprint string         `json:"fingerprint,omitempty"`
}

// Key returns the upsert key for the record.
func (r JobRecord) Key() JobKey {
	return JobKey{Source: r.Source, SourceID: r.SourceID}
}

// SyncError records a single provider failure inside a run.
type SyncError struct {
	Provider string `json:"provider"`
	Message  string `json:"message"`
}

// SyncStats describes one aggregate-then-persist run. It is built once per
// run and never mutated after FinishedAt is set.
type SyncStats struct {
	TotalFetched      int            `json:"totalFetched"`
	TotalValid        int            `json:"totalValid"`
	TotalDuplicates   int            `json:"totalDuplicates"`
	Created           int            `json:"created"`
	Updated           int            `json:"updated"`
	PerProviderCounts map[string]int `json:"perProviderCounts"`
	StartedAt         time.Time      `json:"startedAt"`
	FinishedAt        time.Time      `json:"finishedAt"`
	Errors            []SyncError    `json:"errors"`
}

// AggregateOptions control which sources participate in an aggregation.
type AggregateOptions struct {
	IncludeExternal bool
	IncludeDatabase bool
	IncludeSample   bool
	Page            int
}

// SourceStatus reports whether a configured provider has credentials.
type SourceStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// EngineStatus is the non-blocking status snapshot of the engine.
type EngineStatus struct {
	IsRunning  bool           `json:"isRunning"`
	LastSync   *SyncStats     `json:"lastSync,omitempty"`
	Sources    []SourceStatus `json:"sources"`
	StoredJobs int64          `json:"storedJobs"`
}

// SearchResult wraps a paginated read-path query answer.
type SearchResult struct {
	Records []JobRecord `json:"records"`
	Total   int         `json:"total"`
	HasMore bool        `json:"hasMore"`
}
