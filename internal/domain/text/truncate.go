package text

import (
	"strings"
	"unicode"
)

// Ellipsis is appended when text is cut mid-sentence.
const Ellipsis = "..."

// sentenceThreshold is the minimum position (fraction of maxLength) a sentence
// boundary must reach to be preferred over a word cut.
const sentenceThreshold = 0.7

// Truncate shortens s to at most maxLength runes.
// A sentence boundary at or past 70% of maxLength is kept whole with no ellipsis.
// Otherwise the text is cut at the last whitespace (or hard-cut when there is none)
// and Ellipsis is appended; the cut leaves room for the marker so the result never
// exceeds maxLength, which keeps Truncate idempotent.
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	prefix := runes[:maxLength]
	if end := lastSentenceEnd(prefix); end >= 0 && float64(end) >= sentenceThreshold*float64(maxLength) {
		return string(prefix[:end+1])
	}

	room := maxLength - len(Ellipsis)
	if room <= 0 {
		return string(prefix)
	}

	head := runes[:room]
	if i := lastSpace(head); i > 0 {
		head = head[:i]
	}
	return strings.TrimRightFunc(string(head), unicode.IsSpace) + Ellipsis
}

// lastSentenceEnd returns the index of the last '.', '?' or '!' followed by a space.
func lastSentenceEnd(r []rune) int {
	for i := len(r) - 2; i >= 0; i-- {
		switch r[i] {
		case '.', '?', '!':
			if r[i+1] == ' ' {
				return i
			}
		}
	}
	return -1
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if unicode.IsSpace(r[i]) {
			return i
		}
	}
	return -1
}
