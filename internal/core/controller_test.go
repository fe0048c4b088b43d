package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amityadav/newsexplorer/internal/search"
	"github.com/amityadav/newsexplorer/internal/summarizer"
)

type fakeNews struct {
	mu       sync.Mutex
	calls    int
	articles []search.Article
	err      error
	block    chan struct{}
}

func (f *fakeNews) Search(ctx context.Context, keyword string) ([]search.Article, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.articles, f.err
}

func (f *fakeNews) Headlines(ctx context.Context, category string) ([]search.Article, error) {
	return f.Search(ctx, category)
}

type fakeSummarizer struct {
	mu      sync.Mutex
	texts   []string
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string, opts summarizer.Options) (summarizer.Summary, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return summarizer.Summary{}, f.err
	}
	return summarizer.Summary{Text: "Summary of: " + text, Words: 3}, nil
}

func (f *fakeSummarizer) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

// recordingView keeps the last value pushed for each kind of update
type recordingView struct {
	mu          sync.Mutex
	articles    []search.Article
	searchErr   error
	summaries   map[string]summarizer.Summary
	summaryErrs map[string]error
	hidden      []string
	searchBusy  []bool
	summaryBusy map[string][]bool
}

func newRecordingView() *recordingView {
	return &recordingView{
		summaries:   map[string]summarizer.Summary{},
		summaryErrs: map[string]error{},
		summaryBusy: map[string][]bool{},
	}
}

func (v *recordingView) ShowArticles(a []search.Article) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.articles = a
	v.searchErr = nil
	v.summaries = map[string]summarizer.Summary{}
}

func (v *recordingView) ShowSearchError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.searchErr = err
	v.articles = nil
}

func (v *recordingView) ShowSummary(id string, s summarizer.Summary) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.summaries[id] = s
}

func (v *recordingView) ShowSummaryError(id string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.summaryErrs[id] = err
}

func (v *recordingView) HideSummary(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden = append(v.hidden, id)
}

func (v *recordingView) SetSearchBusy(b bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.searchBusy = append(v.searchBusy, b)
}

func (v *recordingView) SetSummaryBusy(id string, b bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.summaryBusy[id] = append(v.summaryBusy[id], b)
}

func sampleArticles(n int) []search.Article {
	out := make([]search.Article, n)
	for i := range out {
		out[i] = search.Article{
			ID:          fmt.Sprintf("a%d", i),
			Title:       fmt.Sprintf("Climate story %d", i),
			Description: fmt.Sprintf("Description %d", i),
			Content:     fmt.Sprintf("Body of story %d", i),
			URL:         fmt.Sprintf("https://example.com/%d", i),
			SourceName:  "Example",
		}
	}
	return out
}

func newTestController(news *fakeNews, sum *fakeSummarizer) (*Controller, *recordingView, *fakeOpener) {
	view := newRecordingView()
	opener := &fakeOpener{}
	c := NewController(news, sum, nil, opener, view, summarizer.Options{MinLength: 5, MaxLength: 50})
	return c, view, opener
}

func TestOnSearchForwardsResults(t *testing.T) {
	news := &fakeNews{articles: sampleArticles(3)}
	c, view, _ := newTestController(news, &fakeSummarizer{})

	if err := c.OnSearch(context.Background(), "climate"); err != nil {
		t.Fatalf("OnSearch() error = %v", err)
	}
	if len(view.articles) != 3 || view.articles[0].ID != "a0" {
		t.Fatalf("view articles = %+v", view.articles)
	}
	if got := view.searchBusy; len(got) != 2 || !got[0] || got[1] {
		t.Errorf("search busy notifications = %v, want [true false]", got)
	}
	if c.Session() == "" {
		t.Error("session not assigned")
	}
}

func TestOnSearchForwardsErrorUnchanged(t *testing.T) {
	news := &fakeNews{err: fmt.Errorf("%w: invalid key", search.ErrAuth)}
	c, view, _ := newTestController(news, &fakeSummarizer{})

	err := c.OnSearch(context.Background(), "climate")
	if !errors.Is(err, search.ErrAuth) {
		t.Fatalf("OnSearch() error = %v", err)
	}
	if view.searchErr != err {
		t.Errorf("view error = %v, want the same error", view.searchErr)
	}
}

func TestSecondSearchWhileInFlight(t *testing.T) {
	news := &fakeNews{articles: sampleArticles(2), block: make(chan struct{})}
	c, _, _ := newTestController(news, &fakeSummarizer{})

	done := make(chan error)
	go func() { done <- c.OnSearch(context.Background(), "first") }()

	// wait until the first search reached the client
	deadline := time.Now().Add(time.Second)
	for {
		news.mu.Lock()
		calls := news.calls
		news.mu.Unlock()
		if calls == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := c.OnSearch(context.Background(), "second"); !errors.Is(err, ErrSearchInFlight) {
		t.Fatalf("second OnSearch() error = %v, want ErrSearchInFlight", err)
	}
	close(news.block)
	if err := <-done; err != nil {
		t.Fatalf("first OnSearch() error = %v", err)
	}
	if news.calls != 1 {
		t.Errorf("client calls = %d, want 1", news.calls)
	}
}

func TestOnSummarizeRequested(t *testing.T) {
	news := &fakeNews{articles: sampleArticles(3)}
	sum := &fakeSummarizer{}
	c, view, _ := newTestController(news, sum)
	c.OnSearch(context.Background(), "climate")

	if err := c.OnSummarizeRequested(context.Background(), "a1"); err != nil {
		t.Fatalf("OnSummarizeRequested() error = %v", err)
	}
	if got := view.summaries["a1"].Text; got != "Summary of: Body of story 1" {
		t.Errorf("summary = %q", got)
	}
	if len(view.summaries) != 1 {
		t.Errorf("summaries shown for %d articles, want 1", len(view.summaries))
	}
	if got := view.summaryBusy["a1"]; len(got) != 2 || !got[0] || got[1] {
		t.Errorf("summary busy notifications = %v", got)
	}
	if len(view.articles) != 3 {
		t.Errorf("article list changed: %d", len(view.articles))
	}
}

func TestOnSummarizeRequestedErrors(t *testing.T) {
	articles := sampleArticles(2)
	articles[1].Content = ""
	articles[1].Description = " "
	news := &fakeNews{articles: articles}
	sum := &fakeSummarizer{err: &summarizer.InferenceError{Backend: "Fake", Err: errors.New("boom")}}
	c, view, _ := newTestController(news, sum)
	c.OnSearch(context.Background(), "climate")

	if err := c.OnSummarizeRequested(context.Background(), "zz"); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("unknown article error = %v", err)
	}

	err := c.OnSummarizeRequested(context.Background(), "a0")
	if !errors.Is(err, summarizer.ErrInference) {
		t.Fatalf("error = %v, want inference error", err)
	}
	if view.summaryErrs["a0"] != err {
		t.Errorf("view error = %v, want the summarizer error unchanged", view.summaryErrs["a0"])
	}
	if len(view.articles) != 2 {
		t.Error("failure touched the article list")
	}

	if err := c.OnSummarizeRequested(context.Background(), "a1"); !errors.Is(err, ErrNoContent) {
		t.Errorf("no content error = %v", err)
	}
}

func TestSummaryInFlightAndLateSummaryDropped(t *testing.T) {
	news := &fakeNews{articles: sampleArticles(2)}
	sum := &fakeSummarizer{started: make(chan struct{}, 1), release: make(chan struct{})}
	c, view, _ := newTestController(news, sum)
	c.OnSearch(context.Background(), "climate")

	done := make(chan error)
	go func() { done <- c.OnSummarizeRequested(context.Background(), "a0") }()
	<-sum.started

	if err := c.OnSummarizeRequested(context.Background(), "a0"); !errors.Is(err, ErrSummaryInFlight) {
		t.Fatalf("second request error = %v, want ErrSummaryInFlight", err)
	}

	// replace the session while the summary is running
	if err := c.OnSearch(context.Background(), "elections"); err != nil {
		t.Fatal(err)
	}
	close(sum.release)
	if err := <-done; err != nil {
		t.Fatalf("OnSummarizeRequested() error = %v", err)
	}
	if _, shown := view.summaries["a0"]; shown {
		t.Error("late summary was shown for the new session")
	}
	if busy := view.summaryBusy["a0"]; len(busy) != 1 {
		t.Errorf("busy notifications = %v, want only the initial one", busy)
	}
}

func TestArticleTextUsesExtractorForTruncatedContent(t *testing.T) {
	articles := sampleArticles(1)
	articles[0].Content = "The first part of the story… [+2345 chars]"
	news := &fakeNews{articles: articles}
	sum := &fakeSummarizer{}
	view := newRecordingView()

	ext := &fakeExtractor{text: "The first part of the story and the rest of it, which is much longer."}
	c := NewController(news, sum, ext, &fakeOpener{}, view, summarizer.Options{MaxLength: 50})
	c.OnSearch(context.Background(), "climate")

	if err := c.OnSummarizeRequested(context.Background(), "a0"); err != nil {
		t.Fatal(err)
	}
	if sum.lastText() != ext.text {
		t.Errorf("summarized %q, want extracted text", sum.lastText())
	}

	ext.err = errors.New("403")
	if err := c.OnSummarizeRequested(context.Background(), "a0"); err != nil {
		t.Fatalf("extraction failure surfaced: %v", err)
	}
	if sum.lastText() != "The first part of the story" {
		t.Errorf("fallback text = %q", sum.lastText())
	}
	if ext.calls != 2 {
		t.Errorf("extractor calls = %d", ext.calls)
	}
}

func TestExtractorSkippedForCompleteContent(t *testing.T) {
	news := &fakeNews{articles: sampleArticles(1)}
	ext := &fakeExtractor{text: strings.Repeat("x", 1000)}
	sum := &fakeSummarizer{}
	c := NewController(news, sum, ext, &fakeOpener{}, newRecordingView(), summarizer.Options{})
	c.OnSearch(context.Background(), "climate")
	c.OnSummarizeRequested(context.Background(), "a0")
	if ext.calls != 0 {
		t.Errorf("extractor called %d times for complete content", ext.calls)
	}
}

func TestOnSummaryDismissed(t *testing.T) {
	c, view, _ := newTestController(&fakeNews{articles: sampleArticles(1)}, &fakeSummarizer{})
	c.OnSearch(context.Background(), "climate")

	if err := c.OnSummaryDismissed("a0"); err != nil {
		t.Fatal(err)
	}
	if len(view.hidden) != 1 || view.hidden[0] != "a0" {
		t.Errorf("hidden = %v", view.hidden)
	}
	if err := c.OnSummaryDismissed("a9"); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("error = %v", err)
	}
}

func TestDismissWhileSummarizingDropsResult(t *testing.T) {
	news := &fakeNews{articles: sampleArticles(2)}
	sum := &fakeSummarizer{started: make(chan struct{}, 1), release: make(chan struct{})}
	c, view, _ := newTestController(news, sum)
	c.OnSearch(context.Background(), "climate")

	done := make(chan error)
	go func() { done <- c.OnSummarizeRequested(context.Background(), "a0") }()
	<-sum.started

	if err := c.OnSummaryDismissed("a0"); err != nil {
		t.Fatal(err)
	}
	close(sum.release)
	if err := <-done; err != nil {
		t.Fatalf("OnSummarizeRequested() error = %v", err)
	}
	if _, shown := view.summaries["a0"]; shown {
		t.Error("summary shown for a dismissed panel")
	}
	if busy := view.summaryBusy["a0"]; len(busy) != 2 || busy[1] {
		t.Errorf("busy notifications = %v, want [true false]", busy)
	}

	// a new request after the dismissal is delivered as usual
	sum.started, sum.release = nil, nil
	if err := c.OnSummarizeRequested(context.Background(), "a0"); err != nil {
		t.Fatal(err)
	}
	if _, shown := view.summaries["a0"]; !shown {
		t.Error("summary not shown after a fresh request")
	}
}

func TestDismissWhileSummarizingDropsError(t *testing.T) {
	news := &fakeNews{articles: sampleArticles(1)}
	sum := &fakeSummarizer{
		err:     errors.New("model crashed"),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	c, view, _ := newTestController(news, sum)
	c.OnSearch(context.Background(), "climate")

	done := make(chan error)
	go func() { done <- c.OnSummarizeRequested(context.Background(), "a0") }()
	<-sum.started
	c.OnSummaryDismissed("a0")
	close(sum.release)
	if err := <-done; err == nil {
		t.Fatal("expected the summarizer error to be returned")
	}
	if _, shown := view.summaryErrs["a0"]; shown {
		t.Error("error shown for a dismissed panel")
	}
}

func TestOnOpenOriginal(t *testing.T) {
	articles := sampleArticles(2)
	articles[1].URL = "javascript:alert(1)"
	c, _, opener := newTestController(&fakeNews{articles: articles}, &fakeSummarizer{})
	c.OnSearch(context.Background(), "climate")

	if err := c.OnOpenOriginal("a0"); err != nil {
		t.Fatal(err)
	}
	if len(opener.opened) != 1 || opener.opened[0] != "https://example.com/0" {
		t.Errorf("opened = %v", opener.opened)
	}
	if err := c.OnOpenOriginal("a1"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("error = %v, want ErrInvalidURL", err)
	}
	if len(opener.opened) != 1 {
		t.Error("non-http URL was handed to the browser")
	}
}
