package ai

import (
	"context"
	"time"
)

// Backend is a text generation model used for summarization. Load makes the
// model ready (credentials checked, weights present and resident) and may be
// slow; Generate assumes Load succeeded.
type Backend interface {
	Name() string
	Model() string
	Load(ctx context.Context) error
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest is a single prompt/completion exchange
type GenerateRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// ProviderConfig holds configuration for a backend
type ProviderConfig struct {
	Name        string
	BaseURL     string
	APIKey      string
	Model       string
	AutoPull    bool
	Timeout     time.Duration
	PullTimeout time.Duration
}
