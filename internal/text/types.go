// Package text provides cleanup of generated responses and message
// truncation for the WhatsApp channel. Generated text is untrusted: the
// model occasionally echoes prompt scaffolding (dialogue labels, prior
// exchanges) that must never reach the user or the conversation log.
package text

import "regexp"

// TruncationNotice is appended whenever a message is cut to fit the
// channel limit.
const TruncationNotice = "\n\n[Message truncated - ask for more details if needed]"

// cleanupRules are applied in order. Span rules (label ... closing label)
// run before the trailing-label rules so a partially leaked dialogue
// doesn't survive as an orphaned fragment.
var cleanupRules = []*regexp.Regexp{
	regexp.MustCompile(`(?is)USER QUESTION:.*?ASSISTANT:`),
	regexp.MustCompile(`(?is)User:.*?Assistant:`),
	regexp.MustCompile(`(?is)Question:.*?Answer:`),
	regexp.MustCompile(`(?is)USER QUESTION:.*`),
	regexp.MustCompile(`(?is)ASSISTANT:.*`),
	regexp.MustCompile(`(?is)User previously asked:.*`),
	regexp.MustCompile(`(?is)You previously responded:.*`),
}

// multipleNewlinesRegex collapses runs of newlines into a single newline
// after the removal rules have run.
var multipleNewlinesRegex = regexp.MustCompile(`\n+`)
