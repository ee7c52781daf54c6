// Package fetcher provides the HTTP and headless-browser plumbing behind the
// title fetch strategies: a reachability probe, a limited-body GET with
// charset decoding, and an off-screen Chrome render.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/net/html/charset"
)

// Options configures network behavior.
type Options struct {
	UserAgent      string
	TimeoutSeconds int
	ChromePath     string // path to a Chrome binary (empty = auto-detect)
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		TimeoutSeconds: 10,
	}
}

// Client issues the requests the strategies need. The zero Options fields
// fall back to DefaultOptions.
type Client struct {
	http *http.Client
	opts Options
}

// New creates a Client from options.
func New(opts Options) *Client {
	def := DefaultOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = def.TimeoutSeconds
	}
	return &Client{
		http: &http.Client{Timeout: time.Duration(opts.TimeoutSeconds) * time.Second},
		opts: opts,
	}
}

// Timeout returns the configured per-request timeout.
func (c *Client) Timeout() time.Duration {
	return time.Duration(c.opts.TimeoutSeconds) * time.Second
}

// ProbeResult describes what the reachability probe learned about a URL.
type ProbeResult struct {
	StatusCode  int
	ContentType string // media type only, parameters stripped
	TimedOut    bool
}

// Probe issues a HEAD request to confirm the URL answers and learn its
// content type before committing to a full fetch. A timeout is reported as
// TimedOut rather than an error: a slow site is not an unreachable one, and
// the caller proceeds with the fetch anyway.
func (c *Client) Probe(ctx context.Context, rawURL string, headers map[string]string) (ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("creating probe request: %w", err)
	}
	c.applyHeaders(req, headers)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return ProbeResult{TimedOut: true}, nil
		}
		return ProbeResult{}, fmt.Errorf("probing %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	return ProbeResult{
		StatusCode:  resp.StatusCode,
		ContentType: mediaType(resp.Header.Get("Content-Type")),
	}, nil
}

// Pages are fetched for their <head> metadata; a cap keeps a pathological
// response from being read in full.
const maxBodyBytes = 512 * 1024

// Page is a fetched document.
type Page struct {
	Body        string // decoded to UTF-8
	ContentType string // media type only
	FinalURL    string // after redirects
}

// Get fetches up to maxBodyBytes of the document, decoding the body to
// UTF-8 from whatever charset the response declares.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.applyHeaders(req, headers)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: status %d", rawURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	var r io.Reader = io.LimitReader(resp.Body, maxBodyBytes)
	if decoded, err := charset.NewReader(r, contentType); err == nil {
		r = decoded
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Page{
		Body:        string(body),
		ContentType: mediaType(contentType),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// windowStub keeps script on the page from opening new windows; everything
// must stay inside the one off-screen target.
const windowStub = `window.open = function() { return null; };`

// RenderTitle loads the URL in an off-screen headless Chrome, with images
// disabled and new-window navigation stubbed out, and returns the rendered
// document title. The page load is bounded by the client timeout; when the
// deadline passes, whatever title has rendered so far is read instead of
// failing. Both the allocator and the browser context are torn down on every
// exit path.
func (c *Client) RenderTitle(parent context.Context, rawURL string) (string, error) {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("headless", "new"),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("block-new-web-contents", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(c.opts.UserAgent),
		chromedp.WindowSize(1280, 800),
	}
	if path := FindChrome(c.opts.ChromePath); path != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(path))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	// Start the browser and install the stub before applying the
	// navigation deadline, so a slow page load cannot take the whole
	// browser down with it.
	err := chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(windowStub).Do(ctx)
			return err
		}),
		network.SetExtraHTTPHeaders(network.Headers(map[string]interface{}{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		})),
	)
	if err != nil {
		return "", fmt.Errorf("starting browser: %w", err)
	}

	navCtx, navCancel := context.WithTimeout(browserCtx, c.Timeout())
	defer navCancel()
	// Navigation errors are ignored: a deadline here just means the page is
	// slow, and a partially rendered title is still usable.
	_ = chromedp.Run(navCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)

	var title string
	readCtx, readCancel := context.WithTimeout(browserCtx, 2*time.Second)
	defer readCancel()
	if err := chromedp.Run(readCtx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("reading title: %w", err)
	}
	return title, nil
}

// ChromeAvailable reports whether the render strategy can run at all. It is
// a desktop-only capability, detected at runtime.
func (c *Client) ChromeAvailable() bool {
	return FindChrome(c.opts.ChromePath) != ""
}

var chromeNames = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"}

// Well-known locations checked when no Chrome is on PATH.
var chromeLocations = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// FindChrome returns the path of a usable Chrome binary, or "". A configured
// path is trusted over auto-detection but still has to exist.
func FindChrome(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		return ""
	}
	for _, name := range chromeNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	for _, path := range chromeLocations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (c *Client) applyHeaders(req *http.Request, headers map[string]string) {
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
