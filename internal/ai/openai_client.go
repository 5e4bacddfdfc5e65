package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bloomagain/bloombot/internal/config"
)

type openAIClient struct {
	client *openai.Client
	log    *slog.Logger
	cfg    config.AIConfig
}

func newOpenAIClient(cfg config.AIConfig, log *slog.Logger) (Client, error) {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := log.With("component", "openai_client")
	logger.Info("OpenAI client initialized", "model", cfg.Model, "base_url", clientCfg.BaseURL)
	return &openAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		log:    logger,
		cfg:    cfg,
	}, nil
}

func (c *openAIClient) Complete(ctx context.Context, prompt string, opts ...Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	o := applyOptions(opts)

	temperature := c.cfg.Temperature
	if o.Temperature != nil {
		temperature = *o.Temperature
	}
	maxTokens := int(c.cfg.MaxOutputTokens)
	if o.MaxOutputTokens > 0 {
		maxTokens = int(o.MaxOutputTokens)
	}
	stops := c.cfg.StopSequences
	if o.StopSequences != nil {
		stops = o.StopSequences
	}
	// The chat completions API accepts at most four stop sequences.
	if len(stops) > 4 {
		stops = stops[:4]
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stop:        stops,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	out := resp.Choices[0].Message.Content
	if strings.TrimSpace(out) == "" {
		return "", errors.New("openai returned an empty completion")
	}
	return out, nil
}
