package jooble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://jooble.org"
	defaultTimeout = 15 * time.Second
)

// NewClient instantiates a Jooble API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("jooble: api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// SearchJobs queries Jooble. The API takes a POST with the key in the path.
func (c *Client) SearchJobs(ctx context.Context, query string, params SearchParams) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("jooble: client is nil")
	}
	if query == "" {
		return nil, fmt.Errorf("jooble: query is required")
	}

	page := params.Page
	if page < 1 {
		page = 1
	}

	payload, err := json.Marshal(searchRequest{
		Keywords: query,
		Location: params.Location,
		Page:     page,
	})
	if err != nil {
		return nil, fmt.Errorf("jooble: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("jooble: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jooble: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("jooble: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payloadResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payloadResp); err != nil {
		return nil, fmt.Errorf("jooble: decode response: %w", err)
	}

	jobs := make([]Job, 0, len(payloadResp.Jobs))
	for _, rawPosting := range payloadResp.Jobs {
		var posting jobPosting
		if err := json.Unmarshal(rawPosting, &posting); err != nil {
			continue
		}

		var raw map[string]any
		_ = json.Unmarshal(rawPosting, &raw)

		jobs = append(jobs, mapPosting(posting, raw))
	}

	return jobs, nil
}

func mapPosting(posting jobPosting, raw map[string]any) Job {
	job := Job{
		ID:       posting.ID.String(),
		Title:    posting.Title,
		Company:  posting.Company,
		Location: posting.Location,
		Snippet:  posting.Snippet,
		Salary:   posting.Salary,
		Link:     posting.Link,
		Raw:      raw,
	}

	if posting.Updated != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.9999999", "2006-01-02"} {
			if ts, err := time.Parse(layout, posting.Updated); err == nil {
				job.Updated = ts
				break
			}
		}
	}

	return job
}
