package title

import "strings"

var newlineStripper = strings.NewReplacer(
	"\r", "",
	"\n", "",
	" ", "",
	" ", "",
)

// Clean strips every newline variant and trims surrounding whitespace, so a
// title always fits on the line it is inserted into.
func Clean(s string) string {
	return strings.TrimSpace(newlineStripper.Replace(s))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
)

// EscapeMarkdown escapes the characters that would break out of a
// [title](url) link.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Truncate caps a title at max runes, appending an ellipsis. max == 0 means
// unlimited and returns the input exactly.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
