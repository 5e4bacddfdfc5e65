package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bloomagain/bloombot/internal/config"
)

// NewClient creates a text-generation client for the configured backend.
// A missing API key yields a disabled client rather than an error:
// generation calls return ErrNotConfigured and the callers fall back to
// their degraded responses.
func NewClient(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		log.Warn("no AI API key configured, text generation disabled", "backend", cfg.Backend)
		return disabledClient{}, nil
	}

	switch cfg.Backend {
	case "gemini":
		return newGeminiClient(ctx, cfg, log)
	case "openai":
		return newOpenAIClient(cfg, log)
	default:
		return nil, fmt.Errorf("unknown AI backend: %s", cfg.Backend)
	}
}

type disabledClient struct{}

func (disabledClient) Complete(context.Context, string, ...Option) (string, error) {
	return "", ErrNotConfigured
}
