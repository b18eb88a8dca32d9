package collector

import (
	"regexp"
	"strings"
)

// truncationMarker matches the "[+123 chars]" suffix NewsAPI appends when
// an article body is cut off.
var truncationMarker = regexp.MustCompile(`\[\+\d+\s*chars\]`)

// whitespaceRun matches any run of whitespace, newlines included.
var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText normalizes news article text. Truncation markers are removed
// and whitespace runs collapse to single spaces. Website markdown is never
// cleaned this way because chunking relies on its paragraph breaks.
func CleanText(text string) string {
	text = truncationMarker.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
