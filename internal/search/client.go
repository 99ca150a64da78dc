// internal/search/client.go
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrSearchTimeout = errors.New("SEARCH_TIMEOUT")
	ErrSearchFailed  = errors.New("SEARCH_FAILED")
)

// Result is one raw hit from the search provider.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Client is the search collaborator contract. Implementations are
// best-effort: callers expect failures and empty result lists.
type Client interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Config holds settings for the HTTP search client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxResults int
}

// HTTPClient queries a SerpAPI-style endpoint over HTTP.
type HTTPClient struct {
	config *Config
	client *http.Client
}

func NewHTTPClient(config *Config) *HTTPClient {
	return &HTTPClient{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Search runs one provider query. Timeouts are classified separately
// so the researcher can treat them like any other retryable failure.
func (c *HTTPClient) Search(ctx context.Context, query string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildSearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded ||
			strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "deadline") ||
			strings.Contains(err.Error(), "Client.Timeout") {
			return nil, ErrSearchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search API returned %d", ErrSearchFailed, resp.StatusCode)
	}

	var apiResponse struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
		} `json:"organic_results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrSearchFailed, err)
	}

	results := make([]Result, 0, len(apiResponse.OrganicResults))
	for _, item := range apiResponse.OrganicResults {
		if item.Link == "" && item.Title == "" {
			continue
		}
		results = append(results, Result{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}

	return results, nil
}

func (c *HTTPClient) buildSearchURL(query string) string {
	baseURL, _ := url.Parse(c.config.BaseURL)
	params := url.Values{}
	params.Add("api_key", c.config.APIKey)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", c.config.MaxResults))
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}
