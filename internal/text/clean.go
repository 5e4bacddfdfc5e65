package text

import "strings"

// Clean strips leaked prompt-formatting artifacts from generated text and
// normalizes whitespace. The ordered removal rules run repeatedly until
// the text stops changing: removing a mid-string span can join the
// surviving fragments into a new label pair that a single pass would
// miss. The text only ever shrinks, so the loop terminates. Clean is
// idempotent: applying it twice yields the same result as applying it
// once.
func Clean(raw string) string {
	cleaned := raw
	for {
		prev := cleaned
		for _, rule := range cleanupRules {
			cleaned = rule.ReplaceAllString(cleaned, "")
		}
		if cleaned == prev {
			break
		}
	}

	cleaned = multipleNewlinesRegex.ReplaceAllString(cleaned, "\n")

	return strings.TrimSpace(cleaned)
}
