package textproc

import (
	"strings"
	"unicode/utf8"
)

// CollapseWhitespace joins all whitespace-separated fields with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold is the dedup key of a text: case folded, whitespace collapsed.
func Fold(s string) string {
	return strings.ToLower(CollapseWhitespace(s))
}

// Truncate cuts s to at most maxChars runes and appends "..." when it was cut.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:maxChars]), isSpace) + "..."
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
