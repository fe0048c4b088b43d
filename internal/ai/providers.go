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

// BaseProvider implements Backend for OpenAI-compatible chat completion APIs
type BaseProvider struct {
	config ProviderConfig
	client *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewBaseProvider creates a new OpenAI-compatible provider. BaseURL is the API
// root, e.g. https://api.groq.com/openai/v1.
func NewBaseProvider(config ProviderConfig) *BaseProvider {
	if config.Timeout <= 0 {
		config.Timeout = 90 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &BaseProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (p *BaseProvider) Name() string {
	return p.config.Name
}

func (p *BaseProvider) Model() string {
	return p.config.Model
}

// Load verifies the API key and that the model is served
func (p *BaseProvider) Load(ctx context.Context) error {
	if p.config.APIKey == "" {
		return fmt.Errorf("%s API key is not set", p.config.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/models/"+p.config.Model, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s unreachable: %w", p.config.Name, err)
	}
	defer resp.Body.Close()

	log.Printf("[%s.Load] Response status: %d", p.config.Name, resp.StatusCode)
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s rejected the API key (%d)", p.config.Name, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("model %q is not available on %s", p.config.Model, p.config.Name)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("api error: %d %s", resp.StatusCode, string(body))
	}
}

// Generate sends a single chat completion request
func (p *BaseProvider) Generate(ctx context.Context, in GenerateRequest) (string, error) {
	var messages []chatMessage
	if in.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: in.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: in.Prompt})

	return p.sendRequest(ctx, chatRequest{
		Model:       p.config.Model,
		Messages:    messages,
		MaxTokens:   in.MaxTokens,
		Temperature: 0.2,
	}, "Summary")
}

// sendRequest handles HTTP requests to the AI provider
func (p *BaseProvider) sendRequest(ctx context.Context, reqBody chatRequest, operation string) (string, error) {
	log.Printf("[%s.%s] Sending request...", p.config.Name, operation)

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[%s.%s] Response status: %d", p.config.Name, operation, resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	log.Printf("[%s.%s] Success, response length: %d", p.config.Name, operation, len(content))
	return content, nil
}
