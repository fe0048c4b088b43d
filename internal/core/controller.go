package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/amityadav/newsexplorer/internal/search"
	"github.com/amityadav/newsexplorer/internal/summarizer"
)

// NewsClient searches for articles
type NewsClient interface {
	Search(ctx context.Context, keyword string) ([]search.Article, error)
	Headlines(ctx context.Context, category string) ([]search.Article, error)
}

// Summarizer turns article text into a summary
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts summarizer.Options) (summarizer.Summary, error)
}

// TextExtractor fetches the full body of an article page
type TextExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// URLOpener hands a URL to the user's browser
type URLOpener interface {
	Open(url string) error
}

// Controller routes user actions to the news client, the summarizer and the
// browser, and pushes results to the View. Its methods block until the work
// is done and are meant to be called from request goroutines.
type Controller struct {
	news       NewsClient
	summarizer Summarizer
	extractor  TextExtractor
	opener     URLOpener
	view       View
	opts       summarizer.Options

	mu          sync.Mutex
	session     string
	articles    map[string]search.Article
	searching   bool
	summarizing map[string]bool
	dismissed   map[string]bool
}

// NewController creates a Controller. extractor may be nil.
func NewController(news NewsClient, sum Summarizer, extractor TextExtractor, opener URLOpener, view View, opts summarizer.Options) *Controller {
	return &Controller{
		news:        news,
		summarizer:  sum,
		extractor:   extractor,
		opener:      opener,
		view:        view,
		opts:        opts,
		articles:    map[string]search.Article{},
		summarizing: map[string]bool{},
		dismissed:   map[string]bool{},
	}
}

// OnSearch runs a keyword search and replaces the displayed results
func (c *Controller) OnSearch(ctx context.Context, keyword string) error {
	return c.runSearch(ctx, fmt.Sprintf("search %q", strings.TrimSpace(keyword)), func(ctx context.Context) ([]search.Article, error) {
		return c.news.Search(ctx, keyword)
	})
}

// OnHeadlines fetches top headlines for a category ("" for general) and
// replaces the displayed results
func (c *Controller) OnHeadlines(ctx context.Context, category string) error {
	return c.runSearch(ctx, fmt.Sprintf("headlines %q", category), func(ctx context.Context) ([]search.Article, error) {
		return c.news.Headlines(ctx, category)
	})
}

func (c *Controller) runSearch(ctx context.Context, desc string, fetch func(context.Context) ([]search.Article, error)) error {
	c.mu.Lock()
	if c.searching {
		c.mu.Unlock()
		log.Printf("[Controller] Rejected %s: search in flight", desc)
		return ErrSearchInFlight
	}
	c.searching = true
	c.mu.Unlock()

	c.view.SetSearchBusy(true)
	defer func() {
		c.mu.Lock()
		c.searching = false
		c.mu.Unlock()
		c.view.SetSearchBusy(false)
	}()

	articles, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A new session starts either way; summaries still running for the old
	// one are dropped when they finish.
	c.session = uuid.NewString()
	c.articles = make(map[string]search.Article, len(articles))
	c.summarizing = map[string]bool{}
	c.dismissed = map[string]bool{}

	if err != nil {
		log.Printf("[Controller] %s failed: %v", desc, err)
		c.view.ShowSearchError(err)
		return err
	}

	for _, a := range articles {
		c.articles[a.ID] = a
	}
	log.Printf("[Controller] %s: session %s with %d articles", desc, c.session, len(articles))
	c.view.ShowArticles(articles)
	return nil
}

// OnSummarizeRequested summarizes one article of the current results
func (c *Controller) OnSummarizeRequested(ctx context.Context, articleID string) error {
	c.mu.Lock()
	article, ok := c.articles[articleID]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrArticleNotFound, articleID)
	}
	if c.summarizing[articleID] {
		c.mu.Unlock()
		return ErrSummaryInFlight
	}
	c.summarizing[articleID] = true
	delete(c.dismissed, articleID)
	session := c.session
	c.mu.Unlock()

	c.view.SetSummaryBusy(articleID, true)
	defer c.deliver(session, func() {
		delete(c.summarizing, articleID)
		delete(c.dismissed, articleID)
		c.view.SetSummaryBusy(articleID, false)
	})

	text := c.articleText(ctx, article)
	if text == "" {
		err := fmt.Errorf("%w: %s", ErrNoContent, article.Title)
		c.deliverPanel(session, articleID, func() { c.view.ShowSummaryError(articleID, err) })
		return err
	}

	summary, err := c.summarizer.Summarize(ctx, text, c.opts)
	if err != nil {
		log.Printf("[Controller] Summary for %s failed: %v", articleID, err)
		c.deliverPanel(session, articleID, func() { c.view.ShowSummaryError(articleID, err) })
		return err
	}

	if !c.deliverPanel(session, articleID, func() { c.view.ShowSummary(articleID, summary) }) {
		log.Printf("[Controller] Dropped summary for %s: panel was dismissed or results were replaced", articleID)
	}
	return nil
}

// deliver runs f under the lock if session is still the current one
func (c *Controller) deliver(session string, f func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != session {
		return false
	}
	f()
	return true
}

// deliverPanel is deliver for results shown in an article's summary panel.
// A panel dismissed while its summary was running stays closed.
func (c *Controller) deliverPanel(session, articleID string, f func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != session || c.dismissed[articleID] {
		return false
	}
	f()
	return true
}

// articleText picks the text to summarize. When the API cut the content
// short, the full page is tried first; extraction failures are not errors.
func (c *Controller) articleText(ctx context.Context, a search.Article) string {
	text := a.Text()
	if c.extractor == nil || !a.Truncated() {
		return text
	}

	full, err := c.extractor.Extract(ctx, a.URL)
	if err != nil {
		log.Printf("[Controller] Extraction failed for %s, using API text: %v", a.URL, err)
		return text
	}
	full = strings.TrimSpace(full)
	if len(full) <= len(text) {
		return text
	}
	return full
}

// OnSummaryDismissed hides the summary of an article
func (c *Controller) OnSummaryDismissed(articleID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.articles[articleID]; !ok {
		return fmt.Errorf("%w: %s", ErrArticleNotFound, articleID)
	}
	if c.summarizing[articleID] {
		c.dismissed[articleID] = true
	}
	c.view.HideSummary(articleID)
	return nil
}

// OnOpenOriginal opens the article in the browser
func (c *Controller) OnOpenOriginal(articleID string) error {
	c.mu.Lock()
	article, ok := c.articles[articleID]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrArticleNotFound, articleID)
	}
	if !search.WellFormedURL(article.URL) {
		return fmt.Errorf("%w: %q", ErrInvalidURL, article.URL)
	}

	log.Printf("[Controller] Opening %s", article.URL)
	if err := c.opener.Open(article.URL); err != nil {
		return fmt.Errorf("failed to open %s: %w", article.URL, err)
	}
	return nil
}

// Session returns the identifier of the current result set
func (c *Controller) Session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}
