// Package ai provides the text-generation client used by the classifier
// and the topical responders, with interchangeable Gemini and
// OpenAI-compatible backends.
package ai

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a disabled client when no API key was
// supplied. Callers degrade to their fallback behavior instead of
// failing the request.
var ErrNotConfigured = errors.New("text-generation service not configured")

// Client is the interface to the remote text-generation service: one
// prompt in, one completion out. Implementations must be safe for
// concurrent use.
type Client interface {
	Complete(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// CallOptions tune a single generation call.
type CallOptions struct {
	StopSequences   []string
	MaxOutputTokens int32
	Temperature     *float32
}

// Option mutates CallOptions for one call.
type Option func(*CallOptions)

// WithStopSequences sets stop sequences for this call, replacing the
// configured defaults.
func WithStopSequences(stops []string) Option {
	return func(o *CallOptions) { o.StopSequences = stops }
}

// WithMaxOutputTokens overrides the output length cap for this call.
func WithMaxOutputTokens(n int32) Option {
	return func(o *CallOptions) { o.MaxOutputTokens = n }
}

// WithTemperature overrides the sampling temperature for this call.
func WithTemperature(t float32) Option {
	return func(o *CallOptions) { o.Temperature = &t }
}

func applyOptions(opts []Option) CallOptions {
	var o CallOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
