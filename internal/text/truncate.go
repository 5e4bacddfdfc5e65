package text

import (
	"strings"
	"unicode/utf8"
)

// boundaryFraction is the portion of the allowed window in which a
// sentence or line boundary counts as a good breaking point.
const boundaryFraction = 0.8

// Truncate cuts msg to fit within maxLen characters. If a sentence end
// ('.') or line break falls within the final 20% of the allowed window,
// the message is cut just after that boundary; otherwise it is
// hard-truncated with an ellipsis. Either way the truncation notice is
// appended. Messages already within the limit are returned unchanged.
func Truncate(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}

	window := msg[:maxLen]
	lastPeriod := strings.LastIndexByte(window, '.')
	lastNewline := strings.LastIndexByte(window, '\n')

	breakPoint := lastPeriod
	if lastNewline > breakPoint {
		breakPoint = lastNewline
	}

	if float64(breakPoint) > float64(maxLen)*boundaryFraction {
		return msg[:breakPoint+1] + TruncationNotice
	}

	// The hard cut must not split a multibyte rune; back up to the
	// nearest rune boundary.
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}

	return msg[:cut] + "..." + TruncationNotice
}
