package search

import (
	"context"
	"time"
)

// Article represents a news article from any provider
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"` // often truncated by the API, ends in "[+N chars]"
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Provider    string    `json:"provider"` // "newsapi", "tavily", "serpapi", "rss"
}

// Query is a single keyword search
type Query struct {
	Keyword  string
	Limit    int
	Language string
}

// Provider is the interface all news search providers must implement
type Provider interface {
	// Name returns the provider identifier (e.g., "newsapi", "tavily")
	Name() string

	// SearchNews searches for news articles matching the query.
	// Returned articles have no ID; the Client assigns them after filtering.
	SearchNews(ctx context.Context, q Query) ([]Article, error)
}

// HeadlineProvider is implemented by providers that can list top headlines
type HeadlineProvider interface {
	TopHeadlines(ctx context.Context, category string, limit int) ([]Article, error)
}

// Categories accepted by TopHeadlines
var Categories = []string{"business", "entertainment", "general", "health", "science", "sports", "technology"}
