package ai

import (
	"fmt"

	"github.com/amityadav/newsexplorer/internal/ai/models"
)

// NewBackend creates a backend based on the provider name. An empty model
// selects the provider's default model.
// Supported providers: "ollama", "gemini", "groq", "cerebras"
func NewBackend(providerName string, config ProviderConfig) Backend {
	switch providerName {
	case "ollama":
		config.Name = "Ollama"
		config.Model = orDefault(config.Model, models.DefaultOllamaModel)
		config.BaseURL = orDefault(config.BaseURL, "http://localhost:11434")
		return NewOllamaProvider(config)
	case "gemini":
		config.Name = "Gemini"
		config.Model = orDefault(config.Model, models.DefaultGeminiModel)
		return NewGeminiProvider(config)
	case "groq":
		config.Name = "Groq"
		config.Model = orDefault(config.Model, models.DefaultGroqModel)
		config.BaseURL = orDefault(config.BaseURL, "https://api.groq.com/openai/v1")
		return NewBaseProvider(config)
	case "cerebras":
		config.Name = "Cerebras"
		config.Model = orDefault(config.Model, models.DefaultCerebrasModel)
		config.BaseURL = orDefault(config.BaseURL, "https://api.cerebras.ai/v1")
		return NewBaseProvider(config)
	default:
		// Fail fast: don't silently default to an unknown provider
		panic(fmt.Sprintf("unsupported summarizer backend: %s (supported: ollama, gemini, groq, cerebras)", providerName))
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
