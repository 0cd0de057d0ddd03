// Package sanitize turns markup-laden article text into plain typing text.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinLength is the fewest characters a cleaned text needs to be worth typing.
const MinLength = 100

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	entityPattern = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)
)

// Clean strips tags, replaces entities with a space and collapses whitespace.
func Clean(raw string) string {
	text := tagPattern.ReplaceAllString(raw, "")
	text = entityPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Usable reports whether clean text clears the MinLength bar.
func Usable(clean string) bool {
	return utf8.RuneCountInString(clean) >= MinLength
}

// Words splits clean text on whitespace, keeping at most limit words when limit > 0.
func Words(clean string, limit int) []string {
	words := strings.Fields(clean)
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

// TruncateRunes caps s at n characters without splitting a multi-byte rune.
func TruncateRunes(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
