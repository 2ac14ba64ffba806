package textproc

import (
	"strings"
	"unicode"
)

var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "jr": true, "sr": true, "st": true,
	"vs": true, "no": true, "gen": true, "sen": true, "rep": true, "gov": true, "inc": true,
	"co": true, "lt": true, "col": true, "sgt": true, "u.s": true, "etc": true,
}

// Sentences splits text into trimmed sentences. A sentence ends at '.', '!' or '?' followed
// by whitespace, or at a line break. Single-letter initials ("Stephen A. Smith") and common
// abbreviations do not end a sentence.
func Sentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0

	flush := func(end int) {
		s := CollapseWhitespace(string(runes[start:end]))
		if s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			flush(i + 1)
			continue
		}
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// consume runs like "?!" or "..."
		j := i
		for j+1 < len(runes) && strings.ContainsRune(".!?\"'”’)", runes[j+1]) {
			j++
		}
		if j+1 < len(runes) && !unicode.IsSpace(runes[j+1]) {
			i = j
			continue
		}
		if r == '.' && isAbbreviation(runes[start:i]) {
			i = j
			continue
		}
		flush(j + 1)
		i = j
	}
	if start < len(runes) {
		flush(len(runes))
	}
	return out
}

// isAbbreviation checks the word immediately before a period.
func isAbbreviation(before []rune) bool {
	k := len(before)
	for k > 0 && !unicode.IsSpace(before[k-1]) {
		k--
	}
	word := string(before[k:])
	if word == "" {
		return false
	}
	if len([]rune(word)) == 1 && unicode.IsUpper([]rune(word)[0]) {
		return true
	}
	return abbreviations[strings.ToLower(word)]
}
