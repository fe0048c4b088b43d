package models

const (
	// === Ollama Models ===
	ModelOllamaLlama3_2_1b = "llama3.2:1b"
	ModelOllamaLlama3_2_3b = "llama3.2:3b"
	ModelOllamaQwen2_5_3b  = "qwen2.5:3b"
	ModelOllamaGemma3_1b   = "gemma3:1b"

	// === Gemini Models ===
	ModelGeminiFlash     = "gemini-2.5-flash"
	ModelGeminiFlashLite = "gemini-2.5-flash-lite"

	// === Groq Models ===
	ModelGroqLlama3_1_8b  = "llama-3.1-8b-instant"
	ModelGroqLlama3_3_70b = "llama-3.3-70b-versatile"
	ModelGroqGptOss20b    = "openai/gpt-oss-20b"

	// === Cerebras Models ===
	ModelCerebrasLlama3_1_8b  = "llama3.1-8b"
	ModelCerebrasLlama3_3_70b = "llama-3.3-70b"
)

const (
	// === Default summarization model per backend ===

	// DefaultOllamaModel: small enough to run on a laptop CPU.
	DefaultOllamaModel = ModelOllamaLlama3_2_3b

	DefaultGeminiModel   = ModelGeminiFlashLite
	DefaultGroqModel     = ModelGroqLlama3_1_8b
	DefaultCerebrasModel = ModelCerebrasLlama3_1_8b
)
