// Package mirror rewrites recognized social-media URLs to mirror hosts that
// serve bot-readable metadata instead of an app-interstitial redirect.
package mirror

import (
	"net/url"
	"strings"
)

// Rule maps a set of source hostnames to a mirror host and the request
// headers to send along with it.
type Rule struct {
	Hosts   []string
	Mirror  string
	Headers map[string]string
}

// The mirrors serve OpenGraph HTML to clients that identify as link-preview
// bots and redirect everyone else back to the app.
const botUserAgent = "Mozilla/5.0 (compatible; TelegramBot (like TwitterBot))"

var rules = []Rule{
	{
		Hosts:   []string{"twitter.com", "www.twitter.com"},
		Mirror:  "fxtwitter.com",
		Headers: map[string]string{"User-Agent": botUserAgent},
	},
	{
		Hosts:   []string{"x.com", "www.x.com"},
		Mirror:  "fixupx.com",
		Headers: map[string]string{"User-Agent": botUserAgent},
	},
}

// Request is a fetch target together with its header profile.
type Request struct {
	URL     string
	Headers map[string]string
}

// Prepare maps a recognized social-media URL to its mirror, preserving path,
// query, and fragment. Unrecognized hosts, disabled proxying, and URLs that
// fail to parse all come back verbatim with no headers. Mirror hosts are not
// in the table, so Prepare is idempotent.
func Prepare(rawURL string, useProxy bool) Request {
	req := Request{URL: rawURL, Headers: map[string]string{}}
	if !useProxy {
		return req
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return req
	}

	if rule := lookup(u.Host); rule != nil {
		u.Host = rule.Mirror
		req.URL = u.String()
		for k, v := range rule.Headers {
			req.Headers[k] = v
		}
	}
	return req
}

// IsSocial reports whether the URL's host is in the rewrite table. Social
// URLs are always fetched over plain HTTP with the rewrite applied; the
// render strategy does not reliably execute the mirrors' client-side
// redirect handling.
func IsSocial(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return lookup(u.Host) != nil
}

func lookup(host string) *Rule {
	for i := range rules {
		for _, h := range rules[i].Hosts {
			if strings.EqualFold(host, h) {
				return &rules[i]
			}
		}
	}
	return nil
}
