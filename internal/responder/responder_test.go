package responder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bloomagain/bloombot/internal/ai"
	"github.com/bloomagain/bloombot/internal/classify"
	"github.com/bloomagain/bloombot/internal/userdata"
)

type fakeClient struct {
	reply      string
	err        error
	lastPrompt string
}

func (c *fakeClient) Complete(_ context.Context, prompt string, _ ...ai.Option) (string, error) {
	c.lastPrompt = prompt
	return c.reply, c.err
}

func TestPromptIncludesAllSections(t *testing.T) {
	t.Parallel()

	client := &fakeClient{reply: "ok"}
	r := NewDiet(client, nil)

	res := r.Respond(context.Background(), Request{
		Query:               "what should I eat",
		Logs:                userdata.LogsFromSymptoms("night sweats"),
		ConversationContext: "User previously asked: q1\nYou previously responded: a1",
	})

	if res.Failed {
		t.Fatal("unexpected degraded result")
	}
	if !res.UsedContext {
		t.Error("UsedContext = false with logs present")
	}
	if res.Kind != "diet" {
		t.Errorf("Kind = %q, want diet", res.Kind)
	}

	for _, want := range []string{
		"You are Bloom,",
		"USER PROFILE:\nNo user profile available.",
		"current_symptoms: night sweats",
		"User previously asked: q1",
		`USER'S QUESTION: "what should I eat"`,
		"Keep response under 100 words",
	} {
		if !strings.Contains(client.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFirstInteractionGreetingLine(t *testing.T) {
	t.Parallel()

	client := &fakeClient{reply: "ok"}
	r := NewGeneral(client, nil)

	r.Respond(context.Background(), Request{Query: "q", IsFirstQuery: true})
	if !strings.Contains(client.lastPrompt, "FIRST interaction") {
		t.Error("first query prompt missing welcome instruction")
	}

	r.Respond(context.Background(), Request{Query: "q"})
	if !strings.Contains(client.lastPrompt, "Do not greet them again") {
		t.Error("returning query prompt missing no-greeting instruction")
	}
}

func TestGenerationFailureReturnsFallback(t *testing.T) {
	t.Parallel()

	client := &fakeClient{err: errors.New("service down")}

	for kind, r := range All(client, nil) {
		res := r.Respond(context.Background(), Request{Query: "q"})
		if !res.Failed {
			t.Errorf("%s: Failed = false on generation error", kind)
		}
		if !strings.Contains(res.Output, "I apologize") {
			t.Errorf("%s: fallback = %q", kind, res.Output)
		}
	}
}

func TestAllCoversEveryCategory(t *testing.T) {
	t.Parallel()

	responders := All(&fakeClient{reply: "ok"}, nil)
	for _, cat := range classify.All() {
		if _, ok := responders[cat]; !ok {
			t.Errorf("no responder for category %s", cat)
		}
	}
}
