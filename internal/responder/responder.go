// Package responder implements the four topical responders. Each builds
// a persona prompt from the enriched request and calls the
// text-generation service; a failed generation call is converted into a
// fixed apologetic fallback, never propagated as an error.
package responder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bloomagain/bloombot/internal/ai"
	"github.com/bloomagain/bloombot/internal/userdata"
)

// Request is the normalized input every responder accepts.
type Request struct {
	Query               string
	Profile             *userdata.Profile
	Logs                *userdata.Logs
	ConversationContext string
	IsFirstQuery        bool
}

// Result is the tagged responder output. Failed marks a degraded
// fallback response; Output is always usable text either way.
type Result struct {
	Output      string
	Kind        string
	UsedContext bool
	Failed      bool
}

// Responder turns an enriched request into advice text for one category.
type Responder interface {
	Respond(ctx context.Context, req Request) Result
}

// promptResponder is the shared template-filling implementation behind
// all four categories.
type promptResponder struct {
	kind     string
	persona  string
	guidance string
	fallback string
	client   ai.Client
	logger   *slog.Logger
}

func newPromptResponder(kind, persona, guidance, fallback string, client ai.Client, logger *slog.Logger) *promptResponder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &promptResponder{
		kind:     kind,
		persona:  persona,
		guidance: guidance,
		fallback: fallback,
		client:   client,
		logger:   logger.With("responder", kind),
	}
}

func (r *promptResponder) Respond(ctx context.Context, req Request) Result {
	prompt := r.buildPrompt(req)

	output, err := r.client.Complete(ctx, prompt)
	if err != nil {
		r.logger.WarnContext(ctx, "generation failed, returning fallback", "error", err)
		return Result{
			Output: r.fallback,
			Kind:   r.kind,
			Failed: true,
		}
	}

	return Result{
		Output:      output,
		Kind:        r.kind,
		UsedContext: req.Profile != nil || req.Logs != nil,
	}
}

func (r *promptResponder) buildPrompt(req Request) string {
	profileText := req.Profile.Render(time.Now())
	logsText := req.Logs.Summary()

	contextText := req.ConversationContext
	if contextText == "" {
		contextText = "No previous conversation history."
	}

	greeting := "The user has talked to you before. Do not greet them again; answer directly."
	if req.IsFirstQuery {
		greeting = "This is the user's FIRST interaction. Welcome them warmly to Bloom before answering."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are Bloom, %s.\n\n", r.persona)
	fmt.Fprintf(&b, "USER PROFILE:\n%s\n\n", profileText)
	fmt.Fprintf(&b, "USER SYMPTOMS:\n%s\n\n", logsText)
	fmt.Fprintf(&b, "CONVERSATION HISTORY:\n%s\n\n", contextText)
	fmt.Fprintf(&b, "USER'S QUESTION: %q\n\n", req.Query)
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString(r.guidance)
	b.WriteString(`
- Use conversation history for context but don't repeat it
- Keep response under 100 words
- Don't use markdown formatting
- Be helpful and supportive
- Maintain empathy and understanding in all responses
- ` + greeting + `

Your response:`)
	return b.String()
}
