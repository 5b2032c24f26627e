package llm

import (
	"context"
	"fmt"
	"quizflare/internal/config"
)

// NewModel builds the backend selected by cfg.Provider. It returns
// ErrNotConfigured when the provider needs a key and none is set, so the
// server can start without AI features.
func NewModel(ctx context.Context, cfg config.LLMConfig) (Model, error) {
	if !cfg.HasModelCredential() {
		return nil, ErrNotConfigured
	}
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiModel(ctx, cfg.APIKey, cfg.Model)
	case "ollama":
		return NewOllamaModel(cfg.ServerURL, cfg.Model, cfg.Timeout)
	case "openai":
		return NewOpenAIModel(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
