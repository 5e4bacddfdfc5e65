package classify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bloomagain/bloombot/internal/ai"
)

const categorizationPrompt = `You are an intelligent query categorization system for a menopause health and wellness assistant.
You are provided with User Query: %q
You have to categorize it into one of the following categories:

1. GENERAL: General questions about menopause symptoms, causes, stages, general information, or educational content about menopause
2. CONSULTATION: Questions seeking medical advice, symptom diagnosis, treatment recommendations, medication inquiries, or health-related inquiries
3. DIET: Questions about diet recommendations, nutrition, foods to eat/avoid, meal planning, supplements, weight management, or dietary recommendations for menopause
4. EXERCISE: Questions about physical activity, workout routines, fitness plans, specific exercises, or physical movement recommendations for menopause

# MUST FOLLOW: Please respond in one word only- GENERAL, CONSULTATION, DIET, or EXERCISE
FOR EXAMPLE
User Query: "What are the symptoms of menopause?"
Response: GENERAL

Based on the content and context of this query, respond with ONLY the category name (GENERAL, CONSULTATION, DIET, or EXERCISE).`

// keywordRules is the ordered parse table for the raw model reply. The
// reply is untrusted free text, so matching is case-insensitive substring
// with first match winning; anything else falls through to General.
var keywordRules = []struct {
	keyword  string
	category Category
}{
	{"CONSULTATION", Consultation},
	{"DIET", Diet},
	{"EXERCISE", Exercise},
}

// Classifier performs single-shot query categorization against the
// text-generation service.
type Classifier struct {
	client ai.Client
	logger *slog.Logger
}

// New creates a Classifier using the given generation client.
func New(client ai.Client, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Classifier{
		client: client,
		logger: logger.With("component", "classifier"),
	}
}

// Classify maps query to exactly one Category. The remote reply is parsed
// with ParseReply; a failed generation call defaults to General rather
// than surfacing an error, since an unclassifiable query is a normal
// outcome.
func (c *Classifier) Classify(ctx context.Context, query string) Category {
	raw, err := c.client.Complete(ctx, fmt.Sprintf(categorizationPrompt, query),
		ai.WithMaxOutputTokens(10),
		ai.WithTemperature(0),
		ai.WithStopSequences([]string{}))
	if err != nil {
		c.logger.WarnContext(ctx, "categorization call failed, defaulting to GENERAL", "error", err)
		return General
	}

	category := ParseReply(raw)
	c.logger.DebugContext(ctx, "query categorized", "category", category.String(), "raw_reply", strings.TrimSpace(raw))
	return category
}

// ParseReply resolves a raw model reply to a Category via the ordered
// keyword table. Replies containing none of the keywords yield General.
func ParseReply(raw string) Category {
	upper := strings.ToUpper(raw)
	for _, rule := range keywordRules {
		if strings.Contains(upper, rule.keyword) {
			return rule.category
		}
	}
	return General
}
