package title

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/rs/zerolog"

	"linktitle/fetcher"
	"linktitle/messages"
	"linktitle/mirror"
)

// Scrape fetches the page over plain HTTP and pulls a title out of its
// markup, preferring the social-preview metadata over the <title> element.
// Recognized social-media URLs are routed through their mirror hosts first.
type Scrape struct {
	Fetcher  *fetcher.Client
	UseProxy bool
	Messages messages.Set
	Log      zerolog.Logger
}

// Fetch implements Strategy. A failed reachability probe yields the
// unreachable notice, which is final rather than empty; non-HTML resources
// are named by the final path segment of the URL as pasted, not its mirror.
func (s *Scrape) Fetch(ctx context.Context, rawURL string) string {
	req := mirror.Prepare(rawURL, s.UseProxy)

	probe, err := s.Fetcher.Probe(ctx, req.URL, req.Headers)
	if err != nil {
		s.Log.Debug().Err(err).Str("url", req.URL).Msg("probe failed")
		return s.Messages.SiteUnreachable
	}
	// A timed-out probe is not a verdict; carry on with the full fetch.
	if !probe.TimedOut {
		if probe.StatusCode < 200 || probe.StatusCode >= 300 {
			return s.Messages.SiteUnreachable
		}
		if probe.ContentType != "" && !isHTML(probe.ContentType) {
			return s.fileLabel(rawURL)
		}
	}

	page, err := s.Fetcher.Get(ctx, req.URL, req.Headers)
	if err != nil {
		s.Log.Debug().Err(err).Str("url", req.URL).Msg("fetch failed")
		return ""
	}
	if page.ContentType != "" && !isHTML(page.ContentType) {
		return s.fileLabel(rawURL)
	}
	return extractTitle(page.Body, rawURL)
}

// extractTitle walks the markup fallbacks in preference order and lands on
// the URL itself when the page offers nothing better.
func extractTitle(body, rawURL string) string {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(body)); err == nil && og.Title != "" {
		return og.Title
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return rawURL
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	// Script-rendered pages often ship an empty <title> but still fill in a
	// meta title server-side.
	if t, ok := doc.Find(`meta[name="title"]`).First().Attr("content"); ok {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return rawURL
}

// fileLabel names a downloadable resource by the last segment of its path.
func (s *Scrape) fileLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return s.Messages.DownloadLabel
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return s.Messages.DownloadLabel
	}
	return base
}

func isHTML(contentType string) bool {
	return strings.Contains(contentType, "text/html") || strings.Contains(contentType, "xhtml")
}
