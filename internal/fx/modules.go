package fx

import (
	"log"

	"go.uber.org/fx"
	grpchealth "google.golang.org/grpc/health"

	"github.com/amityadav/newsexplorer/internal/ai"
	"github.com/amityadav/newsexplorer/internal/browser"
	"github.com/amityadav/newsexplorer/internal/config"
	"github.com/amityadav/newsexplorer/internal/core"
	"github.com/amityadav/newsexplorer/internal/health"
	"github.com/amityadav/newsexplorer/internal/newsapi"
	"github.com/amityadav/newsexplorer/internal/rss"
	"github.com/amityadav/newsexplorer/internal/scraper"
	"github.com/amityadav/newsexplorer/internal/search"
	"github.com/amityadav/newsexplorer/internal/serpapi"
	"github.com/amityadav/newsexplorer/internal/summarizer"
	"github.com/amityadav/newsexplorer/internal/tavily"
	"github.com/amityadav/newsexplorer/internal/ui"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// SearchModule provides the provider registry and the active news client
var SearchModule = fx.Module("search",
	fx.Provide(
		NewSearchRegistry,
		NewNewsClient,
	),
)

// ScraperModule provides article text extraction
var ScraperModule = fx.Module("scraper",
	fx.Provide(NewScraper),
)

// SummarizerModule provides the model backend and the lazy summarizer
var SummarizerModule = fx.Module("summarizer",
	fx.Provide(
		NewBackend,
		NewSummarizer,
	),
)

// UIModule provides the presenter and the browser launcher
var UIModule = fx.Module("ui",
	fx.Provide(
		ui.NewPresenter,
		browser.NewOpener,
	),
)

// CoreModule provides the application controller
var CoreModule = fx.Module("core",
	fx.Provide(NewController),
)

// HealthModule provides the gRPC health server and the readiness monitor
var HealthModule = fx.Module("health",
	fx.Provide(
		NewHealthServer,
		NewMonitor,
	),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewSearchRegistry registers every news provider; keys are checked on first search
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := search.NewRegistry()
	registry.Register(newsapi.NewClient(cfg.NewsAPIKey, cfg.NewsAPIBaseURL, cfg.NewsTimeout))
	registry.Register(tavily.NewClient(cfg.TavilyAPIKey, cfg.TavilyBaseURL, cfg.NewsTimeout))
	registry.Register(serpapi.NewClient(cfg.SerpAPIKey))
	registry.Register(rss.NewFetcher(cfg.RSSSearchURL, cfg.NewsTimeout))
	log.Printf("[FX] SearchRegistry initialized with %d providers %v", registry.Count(), registry.Names())
	return registry
}

// NewNewsClient selects the configured provider
func NewNewsClient(registry *search.Registry, cfg config.Config) (*search.Client, error) {
	provider, err := registry.Get(cfg.NewsProvider)
	if err != nil {
		return nil, err
	}
	if cfg.NewsProvider == "newsapi" && cfg.NewsAPIKey == "" {
		log.Printf("[FX] WARNING: NEWSAPI_KEY is not set, searches will fail until it is configured")
	}
	log.Printf("[FX] NewsClient initialized (provider: %s)", provider.Name())
	return search.NewClient(provider, cfg.NewsPageSize, cfg.NewsLanguage), nil
}

// NewScraper returns nil when extraction is disabled
func NewScraper(cfg config.Config) *scraper.Scraper {
	if !cfg.ScraperEnabled {
		log.Printf("[FX] Scraper disabled")
		return nil
	}
	log.Printf("[FX] Scraper initialized")
	return scraper.NewScraper(cfg.ScraperTimeout)
}

// NewBackend creates the summarization backend. Unsupported names panic.
func NewBackend(cfg config.Config) ai.Backend {
	pc := ai.ProviderConfig{
		Model:       cfg.SummarizerModel,
		Timeout:     cfg.InferenceTimeout,
		PullTimeout: cfg.ModelPullTimeout,
	}
	switch cfg.SummarizerBackend {
	case "ollama":
		pc.BaseURL = cfg.OllamaBaseURL
		pc.AutoPull = cfg.OllamaAutoPull
	case "gemini":
		pc.APIKey = cfg.GeminiAPIKey
	case "groq":
		pc.APIKey = cfg.GroqAPIKey
	case "cerebras":
		pc.APIKey = cfg.CerebrasAPIKey
	}
	backend := ai.NewBackend(cfg.SummarizerBackend, pc)
	log.Printf("[FX] Summarizer backend initialized (%s, model %s)", backend.Name(), backend.Model())
	return backend
}

// NewSummarizer creates the lazily loading summarizer
func NewSummarizer(backend ai.Backend, cfg config.Config) *summarizer.Summarizer {
	s := summarizer.New(backend, summarizer.Options{
		MinLength: cfg.SummaryMinWords,
		MaxLength: cfg.SummaryMaxWords,
	}, cfg.SummaryMaxInput)
	log.Printf("[FX] Summarizer initialized (%d-%d words, model loads on first use)", cfg.SummaryMinWords, cfg.SummaryMaxWords)
	return s
}

// ControllerParams groups dependencies for the Controller
type ControllerParams struct {
	fx.In
	News       *search.Client
	Summarizer *summarizer.Summarizer
	Scraper    *scraper.Scraper `optional:"true"`
	Opener     *browser.Opener
	Presenter  *ui.Presenter
}

// NewController wires the controller to the presenter
func NewController(p ControllerParams) *core.Controller {
	var extractor core.TextExtractor
	if p.Scraper != nil {
		extractor = p.Scraper
	}
	c := core.NewController(p.News, p.Summarizer, extractor, p.Opener, p.Presenter, p.Summarizer.Defaults())
	log.Printf("[FX] Controller initialized")
	return c
}

// NewHealthServer creates the gRPC health service
func NewHealthServer() *grpchealth.Server {
	log.Printf("[FX] HealthServer initialized")
	return grpchealth.NewServer()
}

// NewMonitor creates the summarizer readiness monitor
func NewMonitor(s *summarizer.Summarizer, hs *grpchealth.Server, cfg config.Config) *health.Monitor {
	log.Printf("[FX] HealthMonitor initialized (%s)", cfg.HealthCheckSchedule)
	return health.NewMonitor(s, hs, cfg.HealthCheckSchedule)
}
