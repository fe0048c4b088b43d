package search

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
)

// Client runs keyword searches against a single provider and cleans up the results
type Client struct {
	provider Provider
	limit    int
	language string
}

// NewClient creates a search client. limit caps the number of returned articles.
func NewClient(provider Provider, limit int, language string) *Client {
	if limit <= 0 {
		limit = 20
	}
	return &Client{
		provider: provider,
		limit:    limit,
		language: language,
	}
}

// ProviderName returns the name of the active provider
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

func (c *Client) SupportsHeadlines() bool {
	_, ok := c.provider.(HeadlineProvider)
	return ok
}

// Search returns the articles matching keyword.
// A blank keyword never reaches the provider and yields ErrEmptyResult.
func (c *Client) Search(ctx context.Context, keyword string) ([]Article, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: empty keyword", ErrEmptyResult)
	}

	log.Printf("[Search] %s: searching for %q (limit %d)", c.provider.Name(), keyword, c.limit)
	raw, err := c.provider.SearchNews(ctx, Query{
		Keyword:  keyword,
		Limit:    c.limit,
		Language: c.language,
	})
	if err != nil {
		log.Printf("[Search] %s: search for %q failed: %v", c.provider.Name(), keyword, err)
		return nil, err
	}
	return c.finalize(raw, fmt.Sprintf("query %q", keyword))
}

// Headlines returns top headlines for a category, or general headlines when category is empty
func (c *Client) Headlines(ctx context.Context, category string) ([]Article, error) {
	hp, ok := c.provider.(HeadlineProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no headlines", ErrUnsupported, c.provider.Name())
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && !slices.Contains(Categories, category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrUpstream, category)
	}

	log.Printf("[Search] %s: fetching headlines (category=%q)", c.provider.Name(), category)
	raw, err := hp.TopHeadlines(ctx, category, c.limit)
	if err != nil {
		log.Printf("[Search] %s: headlines failed: %v", c.provider.Name(), err)
		return nil, err
	}
	desc := "top headlines"
	if category != "" {
		desc = fmt.Sprintf("top headlines for %q", category)
	}
	return c.finalize(raw, desc)
}

// finalize drops unusable records, caps the count and assigns session IDs
func (c *Client) finalize(raw []Article, desc string) ([]Article, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrEmptyResult, desc)
	}

	valid := make([]Article, 0, len(raw))
	for _, a := range raw {
		if !a.Valid() {
			continue
		}
		a.Title = strings.TrimSpace(a.Title)
		a.URL = strings.TrimSpace(a.URL)
		if a.Provider == "" {
			a.Provider = c.provider.Name()
		}
		valid = append(valid, a)
		if len(valid) == c.limit {
			break
		}
	}

	if len(valid) == 0 {
		log.Printf("[Search] %d articles received for %s, none passed validation", len(raw), desc)
		return nil, fmt.Errorf("%w: received %d articles for %s, none usable", ErrEmptyResult, len(raw), desc)
	}

	for i := range valid {
		valid[i].ID = fmt.Sprintf("a%d", i)
	}
	log.Printf("[Search] %d valid articles for %s", len(valid), desc)
	return valid, nil
}
