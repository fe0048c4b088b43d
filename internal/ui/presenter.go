package ui

import (
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/amityadav/newsexplorer/internal/search"
	"github.com/amityadav/newsexplorer/internal/summarizer"
)

const (
	// SnippetWidth is the display width, in terminal columns, of a card snippet
	SnippetWidth = 280

	publishedLayout = "2006-01-02 15:04"
)

// Card is one displayed article
type Card struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Snippet   string        `json:"snippet"`
	Source    string        `json:"source"`
	Published string        `json:"published"`
	URL       string        `json:"url"`
	Summary   *SummaryPanel `json:"summary,omitempty"`
}

// SummaryPanel is the summary area under a card. A nil panel is hidden.
type SummaryPanel struct {
	Pending bool   `json:"pending"`
	Text    string `json:"text,omitempty"`
	Words   int    `json:"words,omitempty"`
	Model   string `json:"model,omitempty"`
	Seconds string `json:"seconds,omitempty"`
	Error   string `json:"error,omitempty"`
}

// State is a snapshot of everything on screen
type State struct {
	Version   uint64 `json:"version"`
	Cards     []Card `json:"cards"`
	Error     string `json:"error,omitempty"`
	Searching bool   `json:"searching"`
	Searched  bool   `json:"searched"`
}

// Presenter holds display state. It implements the controller's View and
// contains no business logic.
type Presenter struct {
	mu    sync.RWMutex
	state State
	index map[string]int
}

func NewPresenter() *Presenter {
	return &Presenter{index: map[string]int{}}
}

// State returns a deep copy of the current display state
func (p *Presenter) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.state
	s.Cards = make([]Card, len(p.state.Cards))
	for i, c := range p.state.Cards {
		if c.Summary != nil {
			panel := *c.Summary
			c.Summary = &panel
		}
		s.Cards[i] = c
	}
	return s
}

func (p *Presenter) ShowArticles(articles []search.Article) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cards := make([]Card, len(articles))
	p.index = make(map[string]int, len(articles))
	for i, a := range articles {
		cards[i] = newCard(a)
		p.index[a.ID] = i
	}
	p.state.Cards = cards
	p.state.Error = ""
	p.state.Searched = true
	p.state.Version++
}

func (p *Presenter) ShowSearchError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Cards = nil
	p.index = map[string]int{}
	p.state.Error = Message(err)
	p.state.Searched = true
	p.state.Version++
}

func (p *Presenter) ShowSummary(articleID string, s summarizer.Summary) {
	p.setPanel(articleID, &SummaryPanel{
		Text:    s.Text,
		Words:   s.Words,
		Model:   s.Model,
		Seconds: formatSeconds(s.Latency),
	})
}

func (p *Presenter) ShowSummaryError(articleID string, err error) {
	p.setPanel(articleID, &SummaryPanel{Error: Message(err)})
}

func (p *Presenter) HideSummary(articleID string) {
	p.setPanel(articleID, nil)
}

func (p *Presenter) SetSearchBusy(busy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Searching = busy
	p.state.Version++
}

func (p *Presenter) SetSummaryBusy(articleID string, busy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[articleID]
	if !ok {
		return
	}
	card := &p.state.Cards[i]
	switch {
	case busy:
		card.Summary = &SummaryPanel{Pending: true}
	case card.Summary != nil:
		card.Summary.Pending = false
	}
	p.state.Version++
}

func (p *Presenter) setPanel(articleID string, panel *SummaryPanel) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[articleID]
	if !ok {
		return
	}
	p.state.Cards[i].Summary = panel
	p.state.Version++
}

func newCard(a search.Article) Card {
	snippet := strings.Join(strings.Fields(a.Description), " ")
	if snippet == "" {
		snippet = strings.Join(strings.Fields(a.Text()), " ")
	}
	if snippet == "" {
		snippet = "No description available."
	}

	source := a.SourceName
	if source == "" {
		source = "Unknown Source"
	}

	return Card{
		ID:        a.ID,
		Title:     a.Title,
		Snippet:   runewidth.Truncate(snippet, SnippetWidth, "…"),
		Source:    source,
		Published: formatPublished(a.PublishedAt),
		URL:       a.URL,
	}
}

func formatPublished(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(publishedLayout)
}

func formatSeconds(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.Round(100 * time.Millisecond).String()
}
