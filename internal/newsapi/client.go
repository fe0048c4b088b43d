package newsapi

import (
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

const (
	// DefaultBaseURL is the NewsAPI v2 endpoint root
	DefaultBaseURL = "https://newsapi.org/v2"

	placeholderKey = "YOUR_NEWSAPI_KEY"
	minKeyLength   = 30
)

// Client is a NewsAPI.org client
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a new NewsAPI client
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// apiArticle is a single article as NewsAPI returns it
type apiArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// apiResponse covers both the success and the error payloads
type apiResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "newsapi"
}

// SearchNews implements search.Provider using the /everything endpoint
func (c *Client) SearchNews(ctx context.Context, q search.Query) ([]search.Article, error) {
	params := url.Values{}
	params.Set("q", q.Keyword)
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", fmt.Sprint(pageSize(q.Limit)))
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	return c.fetch(ctx, "everything", params, fmt.Sprintf("everything for query %q", q.Keyword))
}

// TopHeadlines implements search.HeadlineProvider. Without a category it returns US headlines.
func (c *Client) TopHeadlines(ctx context.Context, category string, limit int) ([]search.Article, error) {
	params := url.Values{}
	params.Set("pageSize", fmt.Sprint(pageSize(limit)))
	desc := "top headlines for US (default)"
	if category != "" {
		params.Set("category", category)
		params.Set("language", "en")
		desc = fmt.Sprintf("top headlines for category %q", category)
	} else {
		params.Set("country", "us")
	}
	return c.fetch(ctx, "top-headlines", params, desc)
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values, desc string) ([]search.Article, error) {
	if err := c.checkKey(); err != nil {
		return nil, err
	}

	log.Printf("[NewsAPI] Fetching %s...", desc)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	log.Printf("[NewsAPI] Response status: %d", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", search.ErrNetwork, err)
	}

	var payload apiResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode != http.StatusOK || payload.Status == "error" {
		return nil, classifyAPIError(resp.StatusCode, payload, desc)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", search.ErrUpstream, decodeErr)
	}

	articles := make([]search.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, toArticle(a))
	}
	log.Printf("[NewsAPI] Received %d articles (%d total matches)", len(articles), payload.TotalResults)
	return articles, nil
}

// checkKey rejects keys that cannot possibly work before any network I/O
func (c *Client) checkKey() error {
	switch {
	case c.apiKey == "":
		return fmt.Errorf("%w: NEWSAPI_KEY is not set", search.ErrAuth)
	case c.apiKey == placeholderKey:
		return fmt.Errorf("%w: NEWSAPI_KEY still holds the placeholder value", search.ErrAuth)
	case len(c.apiKey) < minKeyLength:
		return fmt.Errorf("%w: NEWSAPI_KEY is too short to be valid", search.ErrAuth)
	}
	return nil
}

func classifyAPIError(status int, payload apiResponse, desc string) error {
	msg := payload.Message
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch payload.Code {
	case "apiKeyInvalid", "apiKeyMissing", "apiKeyDisabled", "apiKeyExhausted":
		return fmt.Errorf("%w (%s): %s", search.ErrAuth, payload.Code, msg)
	case "rateLimited":
		return fmt.Errorf("%w: %s", search.ErrRateLimited, msg)
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %d %s", search.ErrAuth, status, msg)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", search.ErrRateLimited, msg)
	case status >= 500:
		return fmt.Errorf("%w: server error %d: %s", search.ErrNetwork, status, msg)
	default:
		return fmt.Errorf("%w: %d fetching %s (%s): %s", search.ErrUpstream, status, desc, payload.Code, msg)
	}
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: request to NewsAPI timed out: %v", search.ErrNetwork, err)
	}
	return fmt.Errorf("%w: could not connect to NewsAPI: %v", search.ErrNetwork, err)
}

func toArticle(a apiArticle) search.Article {
	out := search.Article{
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		URL:         a.URL,
		SourceName:  a.Source.Name,
		Author:      a.Author,
		Provider:    "newsapi",
	}
	if out.SourceName == "" {
		out.SourceName = "Unknown Source"
	}
	if a.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			out.PublishedAt = t
		}
	}
	return out
}

func pageSize(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
