package serpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	g "github.com/serpapi/google-search-results-golang"

	"github.com/amityadav/newsexplorer/internal/search"
)

// Client is a wrapper around the SerpApi search service
type Client struct {
	apiKey string
	// run executes one search; replaced in tests
	run func(params map[string]string, apiKey string) (map[string]interface{}, error)
}

// NewClient creates a new SerpApi client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		run: func(params map[string]string, apiKey string) (map[string]interface{}, error) {
			gs := g.NewGoogleSearch(params, apiKey)
			return gs.GetJSON()
		},
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "serpapi"
}

// SearchNews implements search.Provider using the Google News tab
func (c *Client) SearchNews(ctx context.Context, q search.Query) ([]search.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: SERPAPI_API_KEY is not set", search.ErrAuth)
	}

	params := map[string]string{
		"q":             q.Keyword,
		"tbm":           "nws",
		"google_domain": "google.com",
		"gl":            "us",
		"num":           fmt.Sprint(q.Limit),
	}
	if q.Language != "" {
		params["hl"] = q.Language
	}

	log.Printf("[SerpApi] Searching news for: %q", q.Keyword)

	type result struct {
		data map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := c.run(params, c.apiKey)
		done <- result{data, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		if isNoResults(res.err) {
			log.Printf("[SerpApi] No results for %q", q.Keyword)
			return nil, nil
		}
		return nil, classifyError(res.err)
	}

	articles := parseNewsResults(res.data)
	log.Printf("[SerpApi] Found %d news results", len(articles))
	return articles, nil
}

// parseNewsResults maps the news_results node onto articles
func parseNewsResults(data map[string]interface{}) []search.Article {
	items, ok := data["news_results"].([]interface{})
	if !ok {
		return nil
	}

	var articles []search.Article
	for _, item := range items {
		res, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		title, _ := res["title"].(string)
		link, _ := res["link"].(string)
		snippet, _ := res["snippet"].(string)

		if title == "" || link == "" {
			continue
		}

		articles = append(articles, search.Article{
			Title:       title,
			URL:         link,
			Description: snippet,
			SourceName:  sourceName(res["source"]),
			Provider:    "serpapi",
		})
	}
	return articles
}

// sourceName handles both the plain string and the {name: ...} object forms
func sourceName(v interface{}) string {
	switch s := v.(type) {
	case string:
		if s != "" {
			return s
		}
	case map[string]interface{}:
		if name, _ := s["name"].(string); name != "" {
			return name
		}
	}
	return "Unknown Source"
}

func isNoResults(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "hasn't returned any results")
}

func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	var urlErr *url.Error
	switch {
	case errors.As(err, &urlErr):
		return fmt.Errorf("%w: serpapi request failed: %v", search.ErrNetwork, err)
	case strings.Contains(msg, "invalid api key"):
		return fmt.Errorf("%w: %v", search.ErrAuth, err)
	case strings.Contains(msg, "run out of searches"), strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %v", search.ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: serpapi search failed: %v", search.ErrUpstream, err)
	}
}
