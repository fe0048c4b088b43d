package rss

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/amityadav/newsexplorer/internal/search"
)

// DefaultSearchURL is the Google News RSS search endpoint
const DefaultSearchURL = "https://news.google.com/rss/search"

// Fetcher searches news through an RSS search endpoint. It needs no API key.
type Fetcher struct {
	searchURL string
	client    *http.Client
}

// NewFetcher creates a new RSS search fetcher
func NewFetcher(searchURL string, timeout time.Duration) *Fetcher {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{
		searchURL: searchURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier
func (f *Fetcher) Name() string {
	return "rss"
}

// SearchNews implements search.Provider
func (f *Fetcher) SearchNews(ctx context.Context, q search.Query) ([]search.Article, error) {
	feedURL, err := f.buildURL(q)
	if err != nil {
		return nil, err
	}

	log.Printf("[RSS] Fetching %s", feedURL)
	fp := gofeed.NewParser()
	fp.Client = f.client
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, classifyError(err)
	}

	// newest first, undated items last in their feed order
	items := feed.Items
	sort.SliceStable(items, func(i, j int) bool {
		iTime, jTime := items[i].PublishedParsed, items[j].PublishedParsed
		if iTime == nil {
			return false
		}
		if jTime == nil {
			return true
		}
		return iTime.After(*jTime)
	})

	var articles []search.Article
	for _, item := range items {
		if q.Limit > 0 && len(articles) >= q.Limit {
			break
		}
		title, source := splitTitle(item.Title)
		if source == "" {
			source = feed.Title
		}
		a := search.Article{
			Title:       title,
			Description: StripHTML(item.Description),
			URL:         item.Link,
			SourceName:  source,
			Provider:    "rss",
		}
		if item.Author != nil {
			a.Author = item.Author.Name
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		// Google News descriptions often repeat only the title; keep the
		// article displayable by falling back to the title as the snippet.
		if a.Description == "" {
			a.Description = title
		}
		articles = append(articles, a)
	}

	log.Printf("[RSS] Parsed %d items from %q", len(articles), feed.Title)
	return articles, nil
}

func (f *Fetcher) buildURL(q search.Query) (string, error) {
	u, err := url.Parse(f.searchURL)
	if err != nil {
		return "", fmt.Errorf("invalid RSS search URL %q: %w", f.searchURL, err)
	}
	params := u.Query()
	params.Set("q", q.Keyword)
	if q.Language != "" {
		params.Set("hl", q.Language)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// splitTitle separates "Headline - Source" as used by news aggregators
func splitTitle(s string) (title, source string) {
	s = strings.TrimSpace(s)
	idx := strings.LastIndex(s, " - ")
	if idx <= 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+3:])
}

func classifyError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s", search.ErrAuth, httpErr.Status)
		case httpErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", search.ErrRateLimited, httpErr.Status)
		case httpErr.StatusCode >= 500:
			return fmt.Errorf("%w: %s", search.ErrNetwork, httpErr.Status)
		default:
			return fmt.Errorf("%w: %s", search.ErrUpstream, httpErr.Status)
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", search.ErrNetwork, err)
	}
	if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
		return fmt.Errorf("%w: response is not a feed", search.ErrUpstream)
	}
	return fmt.Errorf("%w: failed to parse feed: %v", search.ErrUpstream, err)
}
