// Package storesearch is the Go client SDK for the storesearch API.
package storesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is the storesearch SDK entry point.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the given base URL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("storesearch: base URL required")
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// SearchRequest holds the search parameters.
type SearchRequest struct {
	// Query is the free-text search query.
	Query string `json:"query"`
	// Domain identifies the tenant storefront.
	Domain string `json:"domain"`
	// Limit caps the number of results; 0 uses the server default.
	Limit int `json:"limit,omitempty"`
	// Budget is the shopper's price ceiling; 0 means none.
	Budget float64 `json:"budget,omitempty"`
}

// Candidate is one ranked document.
type Candidate struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	SemanticScore float64 `json:"semantic_score"`
	KeywordScore  float64 `json:"keyword_score"`
	StockStatus   string  `json:"stock_status"`
	Price         float64 `json:"price"`
	TotalSales    int     `json:"total_sales"`
}

// Result is one ranked search result.
type Result struct {
	Candidate   Candidate `json:"candidate"`
	Score       float64   `json:"score"`
	Explanation string    `json:"explanation"`
}

// SearchResponse is the reply to a search call.
type SearchResponse struct {
	Results []Result `json:"results"`
	Reason  string   `json:"reason"`
	Count   int      `json:"count"`
}

// HealthResponse reports per-component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storesearch: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// Search runs a ranked product search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	var resp SearchResponse
	if err := c.post(ctx, "/v1/search", req, &resp); err != nil {
		return SearchResponse{}, err
	}
	return resp, nil
}

// Health fetches the server's component health report. A degraded or
// unhealthy server returns the report alongside a non-nil *APIError-free
// error only on transport failure; inspect Status for component state.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("storesearch: build request: %w", err)
	}

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("storesearch: health request: %w", err)
	}
	defer res.Body.Close()

	var out HealthResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return HealthResponse{}, fmt.Errorf("storesearch: decode health response: %w", err)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("storesearch: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("storesearch: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("storesearch: request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if decErr := json.NewDecoder(res.Body).Decode(apiErr); decErr != nil || apiErr.Message == "" {
			apiErr.Code = "unknown"
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		return apiErr
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("storesearch: decode response: %w", err)
	}
	return nil
}
