package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amityadav/newsexplorer/internal/search"
)

const defaultBaseURL = "https://api.tavily.com"

// Client is a Tavily Search API client
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a new Tavily API client
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SearchRequest represents the Tavily search request payload
type SearchRequest struct {
	Query          string   `json:"query"`
	APIKey         string   `json:"api_key"`
	SearchDepth    string   `json:"search_depth,omitempty"` // "basic" or "advanced"
	Topic          string   `json:"topic,omitempty"`        // "general" or "news"
	Days           int      `json:"days,omitempty"`         // Only for "news" topic - max age in days
	IncludeAnswer  bool     `json:"include_answer,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
}

// SearchResult represents a single search result from Tavily
type SearchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"` // Snippet
	Score         float64 `json:"score"`
	RawContent    string  `json:"raw_content,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"` // For news topic
}

// SearchResponse represents the Tavily search response
type SearchResponse struct {
	Query        string         `json:"query"`
	Answer       string         `json:"answer,omitempty"`
	Results      []SearchResult `json:"results"`
	ResponseTime float64        `json:"response_time"`
}

// SearchOptions allows configuring the search
type SearchOptions struct {
	MaxResults int
	Days       int  // Max age of articles (only for news topic)
	NewsOnly   bool // Use "news" topic for recent articles
}

// SearchWithOptions performs a search with additional options
func (c *Client) SearchWithOptions(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: TAVILY_API_KEY is not set", search.ErrAuth)
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}

	reqBody := SearchRequest{
		Query:       query,
		APIKey:      c.apiKey,
		SearchDepth: "basic",
		MaxResults:  opts.MaxResults,
	}

	if opts.NewsOnly {
		reqBody.Topic = "news"
		if opts.Days > 0 {
			reqBody.Days = opts.Days
		} else {
			reqBody.Days = 3
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	log.Printf("[Tavily] Searching for: %q (max %d results, topic=%s, days=%d)", query, opts.MaxResults, reqBody.Topic, reqBody.Days)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: request failed: %v", search.ErrNetwork, err)
	}
	defer resp.Body.Close()

	log.Printf("[Tavily] Response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, classifyStatus(resp.StatusCode, string(bodyBytes))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", search.ErrUpstream, err)
	}

	log.Printf("[Tavily] Found %d results for query: %s", len(searchResp.Results), query)
	return &searchResp, nil
}

func classifyStatus(status int, body string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %d %s", search.ErrAuth, status, body)
	case status == http.StatusTooManyRequests || status == 432 || status == 433:
		// 432/433: plan or pay-as-you-go limit exceeded
		return fmt.Errorf("%w: %d %s", search.ErrRateLimited, status, body)
	case status >= 500:
		return fmt.Errorf("%w: server error %d", search.ErrNetwork, status)
	default:
		return fmt.Errorf("%w: %d %s", search.ErrUpstream, status, body)
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "tavily"
}

// SearchNews implements the search.Provider interface
func (c *Client) SearchNews(ctx context.Context, q search.Query) ([]search.Article, error) {
	resp, err := c.SearchWithOptions(ctx, q.Keyword, SearchOptions{
		MaxResults: q.Limit,
		NewsOnly:   true,
		Days:       7,
	})
	if err != nil {
		return nil, err
	}

	articles := make([]search.Article, len(resp.Results))
	for i, r := range resp.Results {
		articles[i] = search.Article{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Content,
			Content:     r.RawContent,
			SourceName:  hostOf(r.URL),
			PublishedAt: parseDate(r.PublishedDate),
			Provider:    "tavily",
		}
	}
	return articles, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "Unknown Source"
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC1123, time.RFC1123Z, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
