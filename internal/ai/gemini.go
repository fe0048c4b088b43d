package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// GeminiProvider runs summaries on the Gemini API
type GeminiProvider struct {
	config ProviderConfig

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiProvider(config ProviderConfig) *GeminiProvider {
	return &GeminiProvider{config: config}
}

func (p *GeminiProvider) Name() string {
	return p.config.Name
}

func (p *GeminiProvider) Model() string {
	return p.config.Model
}

// Load creates the client and checks the model exists
func (p *GeminiProvider) Load(ctx context.Context) error {
	if p.config.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}

	cc := &genai.ClientConfig{
		APIKey:  p.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.config.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}

	m, err := client.Models.Get(ctx, p.config.Model, nil)
	if err != nil {
		return fmt.Errorf("model %q unavailable: %w", p.config.Model, err)
	}
	log.Printf("[Gemini.Load] Using %s (input limit %d tokens)", m.Name, m.InputTokenLimit)

	p.mu.Lock()
	p.client = client
	p.mu.Unlock()
	return nil
}

// Generate sends a single GenerateContent call
func (p *GeminiProvider) Generate(ctx context.Context, in GenerateRequest) (string, error) {
	p.mu.Lock()
	client := p.client
	p.mu.Unlock()
	if client == nil {
		return "", fmt.Errorf("gemini client not loaded")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}
	if in.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(in.MaxTokens)
	}
	if in.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: in.System}},
		}
	}

	log.Printf("[Gemini.Summary] Sending request...")
	resp, err := client.Models.GenerateContent(ctx, p.config.Model, genai.Text(in.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	out := strings.TrimSpace(extractText(resp))
	log.Printf("[Gemini.Summary] Success, response length: %d", len(out))
	return out, nil
}

func extractText(res *genai.GenerateContentResponse) string {
	if res == nil {
		return ""
	}
	for _, c := range res.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range c.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}
