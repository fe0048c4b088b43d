package summarizer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/amityadav/newsexplorer/internal/ai"
	"github.com/amityadav/newsexplorer/prompts"
)

// State is the model lifecycle state
type State int32

const (
	Unloaded State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Options bounds the summary length in words
type Options struct {
	MinLength int
	MaxLength int
}

// Summary is a generated abstract of one article
type Summary struct {
	Text    string        `json:"text"`
	Words   int           `json:"words"`
	Backend string        `json:"backend"`
	Model   string        `json:"model"`
	Latency time.Duration `json:"latency"`
}

// Summarizer lazily loads a model on first use and summarizes text with it.
// It is safe for concurrent use.
type Summarizer struct {
	backend  ai.Backend
	defaults Options
	maxInput int

	state atomic.Int32
	// one-slot semaphore: holding it means running (or checking) the load
	loadSlot chan struct{}
}

// New creates a Summarizer. Zero-valued options in Summarize fall back to defaults.
func New(backend ai.Backend, defaults Options, maxInputChars int) *Summarizer {
	if defaults.MaxLength <= 0 {
		defaults.MaxLength = 200
	}
	if defaults.MinLength > defaults.MaxLength {
		defaults.MinLength = defaults.MaxLength
	}
	return &Summarizer{
		backend:  backend,
		defaults: defaults,
		maxInput: maxInputChars,
		loadSlot: make(chan struct{}, 1),
	}
}

// State returns the current model state
func (s *Summarizer) State() State {
	return State(s.state.Load())
}

// Backend returns the backend and model names
func (s *Summarizer) Backend() (name, model string) {
	return s.backend.Name(), s.backend.Model()
}

// Defaults returns the configured length range
func (s *Summarizer) Defaults() Options {
	return s.defaults
}

// Warmup loads the model ahead of the first request
func (s *Summarizer) Warmup(ctx context.Context) error {
	return s.ensureLoaded(ctx)
}

func (s *Summarizer) ensureLoaded(ctx context.Context) error {
	if s.State() == Ready {
		return nil
	}

	select {
	case <-ctx.Done():
		return s.unavailable(fmt.Errorf("waiting for model load: %w", ctx.Err()))
	case s.loadSlot <- struct{}{}:
	}
	defer func() { <-s.loadSlot }()

	// someone else finished the load while we waited
	if s.State() == Ready {
		return nil
	}

	s.state.Store(int32(Loading))
	log.Printf("[Summarizer] Loading %s model %s...", s.backend.Name(), s.backend.Model())
	start := time.Now()

	if err := s.backend.Load(ctx); err != nil {
		s.state.Store(int32(Unloaded))
		log.Printf("[Summarizer] Load failed after %v: %v", time.Since(start).Round(time.Millisecond), err)
		return s.unavailable(err)
	}

	s.state.Store(int32(Ready))
	log.Printf("[Summarizer] Model ready in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// Summarize produces an abstractive summary of text. Every call runs
// inference; nothing is cached.
func (s *Summarizer) Summarize(ctx context.Context, text string, opts Options) (Summary, error) {
	input := strings.Join(strings.Fields(text), " ")
	if input == "" {
		return Summary{}, s.inferenceErr(ErrEmptyInput)
	}

	if opts.MaxLength <= 0 {
		opts.MaxLength = s.defaults.MaxLength
	}
	if opts.MinLength <= 0 {
		opts.MinLength = s.defaults.MinLength
	}
	if opts.MinLength > opts.MaxLength {
		opts.MinLength = opts.MaxLength
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return Summary{}, err
	}

	input = ai.TruncateToLimit(input, s.maxInput)
	inputWords := ai.CountWords(input)
	shortInput := inputWords < opts.MinLength
	if shortInput {
		opts.MinLength = 0
	}

	log.Printf("[Summarizer] Summarizing %d words (range %d-%d)", inputWords, opts.MinLength, opts.MaxLength)
	start := time.Now()
	out, err := s.backend.Generate(ctx, ai.GenerateRequest{
		System:    prompts.SummarySystem,
		Prompt:    fmt.Sprintf(prompts.Summary, opts.MinLength, opts.MaxLength, input),
		MaxTokens: ai.EstimateTokens(opts.MaxLength),
	})
	if err != nil {
		return Summary{}, s.inferenceErr(err)
	}

	out = ai.CleanSummary(out)
	if out == "" {
		if !shortInput {
			return Summary{}, s.inferenceErr(ErrEmptyOutput)
		}
		out = ai.CleanSummary(input)
	}
	out = ai.ClampWords(out, opts.MinLength, opts.MaxLength)

	summary := Summary{
		Text:    out,
		Words:   ai.CountWords(out),
		Backend: s.backend.Name(),
		Model:   s.backend.Model(),
		Latency: time.Since(start),
	}
	log.Printf("[Summarizer] Done: %d words in %v", summary.Words, summary.Latency.Round(time.Millisecond))
	return summary, nil
}

func (s *Summarizer) unavailable(err error) error {
	return &ModelUnavailableError{Backend: s.backend.Name(), Model: s.backend.Model(), Err: err}
}

func (s *Summarizer) inferenceErr(err error) error {
	return &InferenceError{Backend: s.backend.Name(), Err: err}
}
