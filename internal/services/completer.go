package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/profile-analyzer/internal/config"
)

// CompletionRequest is a single system+user exchange with the completion service.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	JSONMode    bool
}

// Completer sends one request to a completion service and returns the raw
// text of the first candidate.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewCompleter builds the completer for cfg.LLM.Provider. Missing credentials
// are reported on the first Complete call rather than here.
func NewCompleter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Completer, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIService(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, logger), nil
	case config.ProviderGemini:
		return NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}
