package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/bloomagain/bloombot/internal/config"
)

type geminiClient struct {
	genaiClient *genai.Client
	log         *slog.Logger
	cfg         config.AIConfig
}

func newGeminiClient(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Client, error) {
	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", cfg.Model)
	return &geminiClient{
		genaiClient: gi,
		log:         logger,
		cfg:         cfg,
	}, nil
}

func (c *geminiClient) Complete(ctx context.Context, prompt string, opts ...Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	o := applyOptions(opts)

	temperature := c.cfg.Temperature
	if o.Temperature != nil {
		temperature = *o.Temperature
	}
	maxTokens := c.cfg.MaxOutputTokens
	if o.MaxOutputTokens > 0 {
		maxTokens = o.MaxOutputTokens
	}
	stops := c.cfg.StopSequences
	if o.StopSequences != nil {
		stops = o.StopSequences
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
		StopSequences:   stops,
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.generateWithRetries(ctx, contents, genCfg)
	if err != nil {
		return "", err
	}

	out := resp.Text()
	if strings.TrimSpace(out) == "" {
		return "", errors.New("gemini returned an empty completion")
	}
	return out, nil
}

// generateWithRetries retries transient API failures (HTTP 500/503) up to
// the configured limit before giving up.
func (c *geminiClient) generateWithRetries(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= c.cfg.MaxRetries; i++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, c.cfg.Model, contents, cfg)
		if err == nil {
			return resp, nil
		}

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) {
			if i < c.cfg.MaxRetries {
				c.log.WarnContext(ctx, "Gemini API call failed, retrying",
					"attempt", i+1, "code", apiErr.Code, "delay", c.cfg.RetryDelay)
				select {
				case <-time.After(c.cfg.RetryDelay):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return nil, fmt.Errorf("gemini API call failed after %d retries (code %d): %w", c.cfg.MaxRetries, apiErr.Code, err)
		}

		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return nil, err
}
