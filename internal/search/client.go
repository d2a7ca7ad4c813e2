// Package search implements the retrieval collaborator client.
//
// The provider is treated as opaque beyond the consumed fields: one POST with
// the query and a result cap, one JSON response with titled, scored results.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// DepthBasic is the only retrieval depth the assistant requests.
const DepthBasic = "basic"

// Client queries the web search provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a search client against baseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
	APIKey      string `json:"api_key,omitempty"`
}

type searchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search performs one blocking retrieval round trip and maps the provider
// results into sources, preserving provider order. There is no internal
// retry; failures surface immediately, classified for user messaging.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.Source, error) {
	body, err := json.Marshal(searchRequest{
		Query:       query,
		SearchDepth: DepthBasic,
		MaxResults:  maxResults,
		APIKey:      c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("search: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("search: parse response: %w", apperr.ErrUpstream)
	}

	sources := make([]models.Source, len(parsed.Results))
	for i, r := range parsed.Results {
		sources[i] = models.Source{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		}
	}
	return sources, nil
}

func classifyTransport(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("search: %v: %w", err, apperr.ErrUpstreamTimeout)
	}
	return fmt.Errorf("search: %v: %w", err, apperr.ErrUpstream)
}

func classifyStatus(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("search: status 429: %w", apperr.ErrQuotaExceeded)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("search: status %d: %w", resp.StatusCode, apperr.ErrInvalidCredentials)
	default:
		return fmt.Errorf("search: status %d: %s: %w", resp.StatusCode, string(snippet), apperr.ErrUpstream)
	}
}
