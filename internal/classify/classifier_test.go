package classify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bloomagain/bloombot/internal/ai"
	"github.com/bloomagain/bloombot/internal/classify"
)

type fakeClient struct {
	reply string
	err   error
}

func (f fakeClient) Complete(context.Context, string, ...ai.Option) (string, error) {
	return f.reply, f.err
}

func TestParseReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reply    string
		expected classify.Category
	}{
		{name: "exact consultation", reply: "CONSULTATION", expected: classify.Consultation},
		{name: "exact diet", reply: "DIET", expected: classify.Diet},
		{name: "exact exercise", reply: "EXERCISE", expected: classify.Exercise},
		{name: "exact general", reply: "GENERAL", expected: classify.General},
		{name: "lowercase reply", reply: "diet", expected: classify.Diet},
		{name: "verbose reply", reply: "The category is: EXERCISE, because...", expected: classify.Exercise},
		{name: "no keyword defaults to general", reply: "I cannot decide.", expected: classify.General},
		{name: "empty reply defaults to general", reply: "", expected: classify.General},
		{name: "diet wins over exercise by priority", reply: "DIET or maybe EXERCISE", expected: classify.Diet},
		{name: "consultation wins over diet by priority", reply: "EXERCISE DIET CONSULTATION", expected: classify.Consultation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classify.ParseReply(tt.reply); got != tt.expected {
				t.Errorf("ParseReply(%q) = %s, want %s", tt.reply, got, tt.expected)
			}
		})
	}
}

func TestClassifyFailureDefaultsToGeneral(t *testing.T) {
	t.Parallel()

	cls := classify.New(fakeClient{err: errors.New("remote down")}, nil)
	if got := cls.Classify(context.Background(), "what foods help?"); got != classify.General {
		t.Errorf("Classify() on failure = %s, want GENERAL", got)
	}
}

func TestClassifyUsesReply(t *testing.T) {
	t.Parallel()

	cls := classify.New(fakeClient{reply: "DIET"}, nil)
	if got := cls.Classify(context.Background(), "What foods help with hot flashes?"); got != classify.Diet {
		t.Errorf("Classify() = %s, want DIET", got)
	}
}

func TestIsGeneralQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{name: "exact basic keyword", message: "What is menopause exactly?", expected: true},
		{name: "pattern plus term", message: "Tell me about hot flashes please", expected: true},
		{name: "pattern without term", message: "What is the weather today?", expected: false},
		{name: "term without pattern", message: "I have menopause and need a diet plan", expected: false},
		{name: "symptom statement", message: "I have joint pain", expected: false},
		{name: "case insensitive", message: "WHEN DOES MENOPAUSE START?", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classify.IsGeneralQuery(tt.message); got != tt.expected {
				t.Errorf("IsGeneralQuery(%q) = %v, want %v", tt.message, got, tt.expected)
			}
		})
	}
}
