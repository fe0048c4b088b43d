package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Presentation
	HTTPAddr    string `yaml:"http_addr"`
	GRPCAddr    string `yaml:"grpc_addr"`
	OpenBrowser bool   `yaml:"open_browser"`

	// News search
	NewsProvider   string        `yaml:"news_provider"` // newsapi, tavily, serpapi, rss
	NewsAPIKey     string        `yaml:"-"`
	NewsAPIBaseURL string        `yaml:"newsapi_base_url"`
	TavilyAPIKey   string        `yaml:"-"`
	TavilyBaseURL  string        `yaml:"tavily_base_url"`
	SerpAPIKey     string        `yaml:"-"`
	RSSSearchURL   string        `yaml:"rss_search_url"`
	NewsPageSize   int           `yaml:"news_page_size"`
	NewsLanguage   string        `yaml:"news_language"`
	NewsTimeout    time.Duration `yaml:"news_timeout"`

	// Article text extraction
	ScraperEnabled bool          `yaml:"scraper_enabled"`
	ScraperTimeout time.Duration `yaml:"scraper_timeout"`

	// Summarization
	SummarizerBackend string        `yaml:"summarizer_backend"` // ollama, gemini, groq, cerebras
	SummarizerModel   string        `yaml:"summarizer_model"`
	SummarizerWarmup  bool          `yaml:"summarizer_warmup"`
	OllamaBaseURL     string        `yaml:"ollama_base_url"`
	OllamaAutoPull    bool          `yaml:"ollama_auto_pull"`
	GeminiAPIKey      string        `yaml:"-"`
	GroqAPIKey        string        `yaml:"-"`
	CerebrasAPIKey    string        `yaml:"-"`
	SummaryMinWords   int           `yaml:"summary_min_words"`
	SummaryMaxWords   int           `yaml:"summary_max_words"`
	SummaryMaxInput   int           `yaml:"summary_max_input_chars"`
	InferenceTimeout  time.Duration `yaml:"inference_timeout"`
	ModelPullTimeout  time.Duration `yaml:"model_pull_timeout"`

	// Health reporting
	HealthCheckSchedule string `yaml:"health_check_schedule"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	return Config{
		HTTPAddr:            "127.0.0.1:8080",
		GRPCAddr:            "127.0.0.1:50051",
		OpenBrowser:         true,
		NewsProvider:        "newsapi",
		NewsAPIBaseURL:      "https://newsapi.org/v2",
		TavilyBaseURL:       "https://api.tavily.com",
		RSSSearchURL:        "https://news.google.com/rss/search",
		NewsPageSize:        20,
		NewsLanguage:        "en",
		NewsTimeout:         20 * time.Second,
		ScraperEnabled:      true,
		ScraperTimeout:      30 * time.Second,
		SummarizerBackend:   "ollama",
		OllamaBaseURL:       "http://localhost:11434",
		OllamaAutoPull:      true,
		SummaryMinWords:     60,
		SummaryMaxWords:     200,
		SummaryMaxInput:     4000,
		InferenceTimeout:    5 * time.Minute,
		ModelPullTimeout:    30 * time.Minute,
		HealthCheckSchedule: "@every 30s",
	}
}

// Load loads configuration from an optional YAML file and environment variables.
// Environment variables win over the file; secrets are only read from the environment.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("EXPLORER_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
		log.Printf("[Config] Loaded defaults from %s", path)
	}

	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.GRPCAddr = getEnv("GRPC_ADDR", cfg.GRPCAddr)
	cfg.OpenBrowser = getEnvBool("OPEN_BROWSER", cfg.OpenBrowser)

	cfg.NewsProvider = strings.ToLower(getEnv("NEWS_PROVIDER", cfg.NewsProvider))
	cfg.NewsAPIKey = os.Getenv("NEWSAPI_KEY")
	cfg.NewsAPIBaseURL = getEnv("NEWSAPI_BASE_URL", cfg.NewsAPIBaseURL)
	cfg.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	cfg.TavilyBaseURL = getEnv("TAVILY_BASE_URL", cfg.TavilyBaseURL)
	cfg.SerpAPIKey = os.Getenv("SERPAPI_API_KEY")
	cfg.RSSSearchURL = getEnv("RSS_SEARCH_URL", cfg.RSSSearchURL)
	cfg.NewsPageSize = getEnvInt("NEWS_PAGE_SIZE", cfg.NewsPageSize)
	cfg.NewsLanguage = getEnv("NEWS_LANGUAGE", cfg.NewsLanguage)
	cfg.NewsTimeout = getEnvDuration("NEWS_TIMEOUT", cfg.NewsTimeout)

	cfg.ScraperEnabled = getEnvBool("SCRAPER_ENABLED", cfg.ScraperEnabled)
	cfg.ScraperTimeout = getEnvDuration("SCRAPER_TIMEOUT", cfg.ScraperTimeout)

	cfg.SummarizerBackend = strings.ToLower(getEnv("SUMMARIZER_BACKEND", cfg.SummarizerBackend))
	cfg.SummarizerModel = getEnv("SUMMARIZER_MODEL", cfg.SummarizerModel)
	cfg.SummarizerWarmup = getEnvBool("SUMMARIZER_WARMUP", cfg.SummarizerWarmup)
	cfg.OllamaBaseURL = getEnv("OLLAMA_BASE_URL", cfg.OllamaBaseURL)
	cfg.OllamaAutoPull = getEnvBool("OLLAMA_AUTO_PULL", cfg.OllamaAutoPull)
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.CerebrasAPIKey = os.Getenv("CEREBRAS_API_KEY")
	cfg.SummaryMinWords = getEnvInt("SUMMARY_MIN_WORDS", cfg.SummaryMinWords)
	cfg.SummaryMaxWords = getEnvInt("SUMMARY_MAX_WORDS", cfg.SummaryMaxWords)
	cfg.SummaryMaxInput = getEnvInt("SUMMARY_MAX_INPUT_CHARS", cfg.SummaryMaxInput)
	cfg.InferenceTimeout = getEnvDuration("INFERENCE_TIMEOUT", cfg.InferenceTimeout)
	cfg.ModelPullTimeout = getEnvDuration("MODEL_PULL_TIMEOUT", cfg.ModelPullTimeout)
	cfg.HealthCheckSchedule = getEnv("HEALTH_CHECK_SCHEDULE", cfg.HealthCheckSchedule)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail much later at runtime.
// A missing news API key is not checked here: it surfaces on first search.
func (c Config) Validate() error {
	switch c.NewsProvider {
	case "newsapi", "tavily", "serpapi", "rss":
	default:
		return fmt.Errorf("unsupported NEWS_PROVIDER %q (supported: newsapi, tavily, serpapi, rss)", c.NewsProvider)
	}
	switch c.SummarizerBackend {
	case "ollama", "gemini", "groq", "cerebras":
	default:
		return fmt.Errorf("unsupported SUMMARIZER_BACKEND %q (supported: ollama, gemini, groq, cerebras)", c.SummarizerBackend)
	}
	if c.NewsPageSize <= 0 || c.NewsPageSize > 100 {
		return fmt.Errorf("NEWS_PAGE_SIZE must be between 1 and 100, got %d", c.NewsPageSize)
	}
	if c.SummaryMinWords < 0 {
		return fmt.Errorf("SUMMARY_MIN_WORDS must be non-negative, got %d", c.SummaryMinWords)
	}
	if c.SummaryMaxWords <= 0 || c.SummaryMaxWords < c.SummaryMinWords {
		return fmt.Errorf("SUMMARY_MAX_WORDS (%d) must be positive and not below SUMMARY_MIN_WORDS (%d)", c.SummaryMaxWords, c.SummaryMinWords)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("[Config] Ignoring invalid integer for %s: %q", key, value)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("[Config] Ignoring invalid boolean for %s: %q", key, value)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
		log.Printf("[Config] Ignoring invalid duration for %s: %q", key, value)
	}
	return defaultValue
}
