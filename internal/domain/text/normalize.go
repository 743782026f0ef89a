// Package text turns stored document text into short, plain excerpts.
package text

import (
	"regexp"
	"strings"
)

var (
	tableRowRe    = regexp.MustCompile(`(?m)^[ \t]*\|.*\|[ \t]*$`)
	linkRe        = regexp.MustCompile(`!?\[([^\]\n]*)\]\([^)]*\)`)
	boldUnderRe   = regexp.MustCompile(`__([^_\n]+?)__`)
	italicUnderRe = regexp.MustCompile(`(^|\W)_([^_\n]+?)_(\W|$)`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Normalize strips markdown formatting and collapses whitespace.
// Table rows go first since they carry other markup characters; link labels are
// extracted before whitespace is collapsed so newlines inside link targets never leak.
// The pass repeats until nothing changes, so Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := raw
	for {
		next := normalizePass(s)
		if next == s {
			return next
		}
		s = next
	}
}

func normalizePass(s string) string {
	s = tableRowRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = boldUnderRe.ReplaceAllString(s, "$1")
	s = italicUnderRe.ReplaceAllString(s, "$1$2$3")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "`", "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
