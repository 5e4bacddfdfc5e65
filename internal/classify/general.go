package classify

import "strings"

// basicKeywords are exact phrases that always mark a message as generic
// educational content on the WhatsApp channel.
var basicKeywords = []string{
	"what is menopause", "menopause symptoms", "menopause stages",
	"when does menopause start", "perimenopause", "postmenopause",
	"menopause definition", "menopause causes", "menopause age",
	"what are hot flashes", "what are night sweats", "menopause basics",
}

// generalPatterns are question openers that, combined with a menopause
// term, mark a message as generic educational content.
var generalPatterns = []string{
	"what is", "what are", "define", "explain", "tell me about",
	"how long does", "when does", "why does",
}

var menopauseTerms = []string{
	"menopause", "perimenopause", "postmenopause", "hot flash", "night sweat",
}

// IsGeneralQuery is the cheap local pre-check used by the WhatsApp flow
// to decide whether a message can be answered immediately without
// gathering symptom context. It is independent of the four-way Category
// classification.
func IsGeneralQuery(message string) bool {
	lower := strings.ToLower(message)

	for _, kw := range basicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	var hasPattern bool
	for _, p := range generalPatterns {
		if strings.Contains(lower, p) {
			hasPattern = true
			break
		}
	}
	if !hasPattern {
		return false
	}

	for _, term := range menopauseTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
