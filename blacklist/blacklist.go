// Package blacklist parses and applies the user's fetch suppression list.
// A blacklisted URL is still linked, but with its hostname as the title and
// no network traffic at all.
package blacklist

import "strings"

// Parse splits a comma- or newline-separated list into trimmed entries,
// discarding empty ones. Order is preserved.
func Parse(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	var entries []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			entries = append(entries, f)
		}
	}
	return entries
}

// Match reports whether the URL contains any of the entries as a substring.
func Match(rawURL string, entries []string) bool {
	for _, e := range entries {
		if strings.Contains(rawURL, e) {
			return true
		}
	}
	return false
}
