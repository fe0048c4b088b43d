package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider runs models on a local Ollama server
type OllamaProvider struct {
	config     ProviderConfig
	client     *http.Client
	pullClient *http.Client
}

type ollamaTagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt,omitempty"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

type ollamaPullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

type ollamaPullResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func NewOllamaProvider(config ProviderConfig) *OllamaProvider {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}
	if config.PullTimeout <= 0 {
		config.PullTimeout = 30 * time.Minute
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &OllamaProvider{
		config:     config,
		client:     &http.Client{Timeout: config.Timeout},
		pullClient: &http.Client{Timeout: config.PullTimeout},
	}
}

func (p *OllamaProvider) Name() string {
	return p.config.Name
}

func (p *OllamaProvider) Model() string {
	return p.config.Model
}

// Load makes sure the model is downloaded and resident in memory
func (p *OllamaProvider) Load(ctx context.Context) error {
	present, err := p.hasModel(ctx)
	if err != nil {
		return err
	}
	if !present {
		if !p.config.AutoPull {
			return fmt.Errorf("model %q is not installed and auto pull is disabled", p.config.Model)
		}
		if err := p.pull(ctx); err != nil {
			return err
		}
	}

	// An empty prompt loads the model without generating anything
	log.Printf("[Ollama.Load] Warming up %s", p.config.Model)
	if _, err := p.generate(ctx, ollamaGenerateRequest{Model: p.config.Model}); err != nil {
		return fmt.Errorf("failed to load model %q: %w", p.config.Model, err)
	}
	return nil
}

func (p *OllamaProvider) hasModel(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("ollama unreachable at %s: %w", p.config.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("ollama tags error: %d", resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false, fmt.Errorf("failed to decode tags: %w", err)
	}

	want := normalizeModelTag(p.config.Model)
	for _, m := range tags.Models {
		if normalizeModelTag(m.Name) == want || normalizeModelTag(m.Model) == want {
			return true, nil
		}
	}
	log.Printf("[Ollama.Load] Model %s not found among %d installed models", p.config.Model, len(tags.Models))
	return false, nil
}

func (p *OllamaProvider) pull(ctx context.Context) error {
	log.Printf("[Ollama.Pull] Downloading %s, this can take a while on first run", p.config.Model)
	start := time.Now()

	body, _ := json.Marshal(ollamaPullRequest{Model: p.config.Model, Stream: false})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.pullClient.Do(req)
	if err != nil {
		return fmt.Errorf("model pull failed: %w", err)
	}
	defer resp.Body.Close()

	var pr ollamaPullResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil && resp.StatusCode == http.StatusOK {
		return fmt.Errorf("failed to decode pull response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || pr.Error != "" {
		return fmt.Errorf("model pull failed: %d %s", resp.StatusCode, pr.Error)
	}
	if pr.Status != "success" {
		return fmt.Errorf("model pull ended with status %q", pr.Status)
	}

	log.Printf("[Ollama.Pull] %s ready after %v", p.config.Model, time.Since(start).Round(time.Second))
	return nil
}

// Generate runs a single non-streaming completion
func (p *OllamaProvider) Generate(ctx context.Context, in GenerateRequest) (string, error) {
	log.Printf("[Ollama.Summary] Sending request...")
	options := map[string]any{"temperature": 0.2}
	if in.MaxTokens > 0 {
		options["num_predict"] = in.MaxTokens
	}
	out, err := p.generate(ctx, ollamaGenerateRequest{
		Model:   p.config.Model,
		Prompt:  in.Prompt,
		System:  in.System,
		Options: options,
	})
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	log.Printf("[Ollama.Summary] Success, response length: %d", len(out))
	return out, nil
}

func (p *OllamaProvider) generate(ctx context.Context, greq ollamaGenerateRequest) (string, error) {
	greq.Stream = false
	body, err := json.Marshal(greq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var gr ollamaGenerateResponse
		if json.Unmarshal(raw, &gr) == nil && gr.Error != "" {
			return "", fmt.Errorf("ollama error: %d %s", resp.StatusCode, gr.Error)
		}
		return "", fmt.Errorf("ollama error: %d %s", resp.StatusCode, string(raw))
	}

	var gr ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if gr.Error != "" {
		return "", fmt.Errorf("ollama error: %s", gr.Error)
	}
	return gr.Response, nil
}

// normalizeModelTag adds the implicit ":latest" tag
func normalizeModelTag(name string) string {
	if name == "" || strings.Contains(name, ":") {
		return name
	}
	return name + ":latest"
}
