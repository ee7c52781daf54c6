// Package classify recognizes URL shapes in pasted or dropped text. It is
// pure pattern matching: no network access and no side effects, so the same
// functions gate title fetching and locate URLs on a line for cursor
// selection.
package classify

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind is the shape of a piece of pasted text.
type Kind int

const (
	// NotAURL means the text is ordinary prose, or a URL form we refuse
	// (whitespace, explicit port, bare scheme-less domain).
	NotAURL Kind = iota

	// PlainURL is a bare URL eligible for title fetching.
	PlainURL

	// MarkdownLinked is a URL already wrapped as [title](url).
	MarkdownLinked

	// ImageURL is a URL whose path ends in a known image extension.
	ImageURL
)

// Classification is the result of classifying one piece of text.
type Classification struct {
	Kind  Kind
	Title string // only set for MarkdownLinked
	URL   string // empty for NotAURL
}

// A URL starts with an http(s) scheme or a www. prefix. The first host label
// is at least two alphanumerics with hyphens only in the interior. The rest of
// the host is a run of at least two characters with no whitespace, slash, or
// colon, optionally followed by a /-rooted non-whitespace tail. Keeping the
// colon out of the host is what makes explicit ports unsupported; colons later
// in the path or query are fine.
const urlPattern = `(?:https?://|www\.)[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])\.[^\s:/]{2,}(?:/[^\s]*)?`

var (
	urlRe    = regexp.MustCompile(`^` + urlPattern + `$`)
	lineRe   = regexp.MustCompile(urlPattern)
	mdLinkRe = regexp.MustCompile(`^\[([^\[\]]*)\]\((` + urlPattern + `)\)$`)
	imageRe  = regexp.MustCompile(`(?i)\.(gif|jpe?g|tiff?|png|webp|bmp|tga|psd|ai)$`)
)

// Classify reports what kind of link, if any, the text is. Autolink angle
// brackets are stripped first, and surrounding whitespace is ignored.
func Classify(text string) Classification {
	trimmed := strings.TrimSpace(StripAngleBrackets(text))

	if m := mdLinkRe.FindStringSubmatch(trimmed); m != nil {
		return Classification{Kind: MarkdownLinked, Title: m[1], URL: m[2]}
	}
	if !urlRe.MatchString(trimmed) {
		return Classification{Kind: NotAURL}
	}
	if IsImage(trimmed) {
		return Classification{Kind: ImageURL, URL: trimmed}
	}
	return Classification{Kind: PlainURL, URL: trimmed}
}

// StripAngleBrackets unwraps an autolink form <url> to its inner URL. Any
// other bracket combination is returned unchanged.
func StripAngleBrackets(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") {
		return trimmed[1 : len(trimmed)-1]
	}
	return text
}

// IsImage reports whether the URL's path ends in a known image extension.
// Only the path counts: a bare host whose TLD collides with an extension,
// like claude.ai, is not an image.
func IsImage(rawURL string) bool {
	u, err := url.Parse(Normalize(rawURL))
	if err != nil {
		return false
	}
	return imageRe.MatchString(u.Path)
}

// Normalize prefixes a scheme onto www.-only URLs so they can be fetched.
func Normalize(rawURL string) string {
	if strings.HasPrefix(rawURL, "www.") {
		return "https://" + rawURL
	}
	return rawURL
}

// Span is a half-open byte range within a line.
type Span struct {
	Start int
	End   int
}

// FindURLs returns the spans of every URL occurrence on a line, in order.
// It backs word-selection when the user invokes the command with nothing
// selected.
func FindURLs(line string) []Span {
	var spans []Span
	for _, m := range lineRe.FindAllStringIndex(line, -1) {
		spans = append(spans, Span{Start: m[0], End: m[1]})
	}
	return spans
}
