package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minContentLen is the shortest extraction accepted as a full article body
	minContentLen = 200
	// maxContentLen caps what is handed on to the summarizer
	maxContentLen = 50000
	// paragraphs and list items shorter than minBlockLen are usually captions or links
	minBlockLen   = 21
	minHeadingLen = 8

	defaultReaderURL = "https://r.jina.ai/"
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ErrNoArticleText is returned when no method produced usable text
var ErrNoArticleText = errors.New("no article text extracted")

// Scraper extracts the readable body of a news article
type Scraper struct {
	client    *http.Client
	readerURL string
}

func NewScraper(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		readerURL: defaultReaderURL,
	}
}

// Extract fetches the page and returns its article text. The reader service
// is only tried when the static HTML did not yield enough text.
func (s *Scraper) Extract(ctx context.Context, pageURL string) (string, error) {
	log.Printf("[Scraper] Fetching URL: %s", pageURL)

	content, err := s.directScrape(ctx, pageURL)
	if err == nil && len(content) >= minContentLen {
		return clip(content), nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	log.Printf("[Scraper] Direct scrape failed or insufficient content (%v), trying reader...", err)

	content, err = s.readerScrape(ctx, pageURL)
	if err == nil && len(content) >= minContentLen {
		return clip(content), nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoArticleText, err)
	}
	return "", ErrNoArticleText
}

// directScrape uses goquery to extract content from static HTML
func (s *Scraper) directScrape(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status code error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	return extractText(doc), nil
}

func extractText(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header, aside, figure, form, .sidebar, .advertisement, .ads, .related").Remove()

	var sb strings.Builder
	selectors := []string{"article", "[role='main']", "main", ".post-content", ".article-content", ".article-body", ".entry-content", ".content"}
	for _, selector := range selectors {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}
		selection.First().Find("p, h2, h3, li").Each(func(i int, s *goquery.Selection) {
			text := normalize(s.Text())
			limit := minBlockLen
			if name := goquery.NodeName(s); name == "h2" || name == "h3" {
				limit = minHeadingLen
			}
			if len(text) >= limit {
				sb.WriteString(text)
				sb.WriteString("\n\n")
			}
		})
		if sb.Len() > 0 {
			break
		}
	}

	// Fallback: all paragraphs
	if sb.Len() == 0 {
		doc.Find("body p").Each(func(i int, s *goquery.Selection) {
			text := normalize(s.Text())
			if len(text) > 30 {
				sb.WriteString(text)
				sb.WriteString("\n\n")
			}
		})
	}
	return strings.TrimSpace(sb.String())
}

// readerScrape asks a reader service to render the page and return plain text
func (s *Scraper) readerScrape(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.readerURL+pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create reader request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reader request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reader status code error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentLen*2))
	if err != nil {
		return "", fmt.Errorf("failed to read reader response: %w", err)
	}
	content := strings.TrimSpace(string(body))
	log.Printf("[Scraper.Reader] Extracted %d characters", len(content))
	return content, nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clip(s string) string {
	if len(s) <= maxContentLen {
		return s
	}
	log.Printf("[Scraper] Truncating from %d to %d chars", len(s), maxContentLen)
	return strings.ToValidUTF8(s[:maxContentLen], "")
}
