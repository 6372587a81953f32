package neo4j

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/talentport/jobsync/internal/domain"
	"github.com/talentport/jobsync/internal/domain/job"
	pkgneo4j "github.com/talentport/jobsync/pkg/neo4j"
)

// Ensure JobStore implements job.Store
var _ job.Store = (*JobStore)(nil)

// JobStore implements job.Store on Neo4j. One :Job node per
// (source, sourceId); the raw provider payload is kept as a JSON string
// property and round-tripped untouched.
type JobStore struct {
	client *pkgneo4j.Client
}

// NewJobStore creates a JobStore with a Neo4j client
func NewJobStore(client *pkgneo4j.Client) *JobStore {
	return &JobStore{client: client}
}

// Upsert merges one job row keyed by (source, sourceId)
func (s *JobStore) Upsert(ctx context.Context, record domain.JobRecord) error {
	if record.Source == "" || record.SourceID == "" {
		return fmt.Errorf("job store: upsert requires source and sourceId")
	}

	session := s.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (j:Job {source: $source, sourceId: $sourceId})
		SET j.title = $title,
		    j.company = $company,
		    j.location = $location,
		    j.country = $country,
		    j.description = $description,
		    j.salary = $salary,
		    j.applyUrl = $applyUrl,
		    j.postedAt = $postedAt,
		    j.fingerprint = $fingerprint,
		    j.rawJson = $rawJson,
		    j.updatedAt = timestamp()
	`

	var rawJSON string
	if record.RawJSON != nil {
		if data, err := json.Marshal(record.RawJSON); err == nil {
			rawJSON = string(data)
		}
	}

	var postedAt int64
	if !record.PostedAt.IsZero() {
		postedAt = record.PostedAt.UnixMilli()
	}

	params := map[string]any{
		"source":      record.Source,
		"sourceId":    record.SourceID,
		"title":       record.Title,
		"company":     record.Company,
		"location":    record.Location,
		"country":     record.Country,
		"description": record.Description,
		"salary":      record.Salary,
		"applyUrl":    record.ApplyURL,
		"postedAt":    postedAt,
		"fingerprint": record.Fingerprint,
		"rawJson":     rawJSON,
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	return err
}

// FindMany loads job rows matching the filter, newest first
func (s *JobStore) FindMany(ctx context.Context, filter job.Filter, page job.Pagination) ([]domain.JobRecord, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	where, params := buildWhere(filter)
	query := "MATCH (j:Job)" + where + " RETURN j ORDER BY j.postedAt DESC, j.sourceId"
	if page.Offset > 0 {
		query += " SKIP $skip"
		params["skip"] = page.Offset
	}
	if page.Limit > 0 {
		query += " LIMIT $limit"
		params["limit"] = page.Limit
	}

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		var records []domain.JobRecord
		for result.Next(ctx) {
			nodeVal, ok := result.Record().Get("j")
			if !ok {
				continue
			}
			node, ok := nodeVal.(neo4j.Node)
			if !ok {
				continue
			}
			records = append(records, recordFromProps(node.Props))
		}
		return records, result.Err()
	})
	if err != nil {
		return nil, err
	}

	return rows.([]domain.JobRecord), nil
}

// Count returns the number of rows matching the filter
func (s *JobStore) Count(ctx context.Context, filter job.Filter) (int64, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	where, params := buildWhere(filter)
	query := "MATCH (j:Job)" + where + " RETURN count(j) AS n"

	count, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := record.Get("n")
		return n, nil
	})
	if err != nil {
		return 0, err
	}

	n, ok := count.(int64)
	if !ok {
		return 0, fmt.Errorf("job store: unexpected count type %T", count)
	}
	return n, nil
}

// DeleteMany removes rows matching the filter and reports how many went away
func (s *JobStore) DeleteMany(ctx context.Context, filter job.Filter) (int64, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	where, params := buildWhere(filter)
	query := "MATCH (j:Job)" + where + " DETACH DELETE j"

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return int64(summary.Counters().NodesDeleted()), nil
	})
	if err != nil {
		return 0, err
	}

	return deleted.(int64), nil
}

func buildWhere(filter job.Filter) (string, map[string]any) {
	var clauses []string
	params := make(map[string]any)

	if filter.Query != "" {
		clauses = append(clauses,
			"(toLower(j.title) CONTAINS $query OR toLower(j.description) CONTAINS $query)")
		params["query"] = strings.ToLower(filter.Query)
	}
	if filter.Location != "" {
		clauses = append(clauses, "toLower(j.location) CONTAINS $location")
		params["location"] = strings.ToLower(filter.Location)
	}
	if filter.Country != "" {
		clauses = append(clauses, "toLower(j.country) = $country")
		params["country"] = strings.ToLower(filter.Country)
	}
	if len(filter.Sources) > 0 {
		clauses = append(clauses, "j.source IN $sources")
		params["sources"] = filter.Sources
	}
	if len(filter.Keys) > 0 {
		keys := make([]any, 0, len(filter.Keys))
		for _, k := range filter.Keys {
			keys = append(keys, map[string]any{"source": k.Source, "sourceId": k.SourceID})
		}
		clauses = append(clauses,
			"any(k IN $keys WHERE k.source = j.source AND k.sourceId = j.sourceId)")
		params["keys"] = keys
	}

	if len(clauses) == 0 {
		return "", params
	}
	return " WHERE " + strings.Join(clauses, " AND "), params
}

func recordFromProps(props map[string]any) domain.JobRecord {
	rec := domain.JobRecord{
		Source:      stringProp(props, "source"),
		SourceID:    stringProp(props, "sourceId"),
		Title:       stringProp(props, "title"),
		Company:     stringProp(props, "company"),
		Location:    stringProp(props, "location"),
		Country:     stringProp(props, "country"),
		Description: stringProp(props, "description"),
		Salary:      stringProp(props, "salary"),
		ApplyURL:    stringProp(props, "applyUrl"),
		Fingerprint: stringProp(props, "fingerprint"),
	}

	if millis, ok := props["postedAt"].(int64); ok && millis > 0 {
		rec.PostedAt = time.UnixMilli(millis).UTC()
	}

	if raw := stringProp(props, "rawJson"); raw != "" {
		var payload map[string]any
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			rec.RawJSON = payload
		}
	}

	return rec
}

func stringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
