package jooble

import (
	"encoding/json"
	"net/http"
	"time"
)

// Config defines Jooble API client settings
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client queries the Jooble job search API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// SearchParams describe a job search request
type SearchParams struct {
	Location string
	Page     int
}

type searchRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location,omitempty"`
	Page     int    `json:"page,omitempty"`
}

type searchResponse struct {
	TotalCount int               `json:"totalCount"`
	Jobs       []json.RawMessage `json:"jobs"`
}

type jobPosting struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Company  string      `json:"company"`
	Location string      `json:"location"`
	Snippet  string      `json:"snippet"`
	Salary   string      `json:"salary"`
	Link     string      `json:"link"`
	Updated  string      `json:"updated"`
}

// Job is a single Jooble posting with its untouched payload attached.
type Job struct {
	ID       string
	Title    string
	Company  string
	Location string
	Snippet  string
	Salary   string
	Link     string
	Updated  time.Time
	Raw      map[string]any
}
