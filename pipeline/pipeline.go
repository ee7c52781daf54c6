// Package pipeline turns pasted or dropped URLs into titled markdown links.
// The flow per invocation: classify the text, consult the blacklist, insert
// an optimistic placeholder synchronously, resolve the title in the
// background, then find the exact placeholder in the buffer and replace it.
// The buffer is never locked; a placeholder the user edited away is simply
// abandoned.
package pipeline

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"linktitle/blacklist"
	"linktitle/buffer"
	"linktitle/classify"
	"linktitle/messages"
	"linktitle/placeholder"
	"linktitle/title"
)

// Pipeline handles paste, drop, and command invocations against a buffer.
type Pipeline struct {
	Resolver *title.Resolver
	Tokens   placeholder.Generator
	Messages messages.Set
	Log      zerolog.Logger

	// Blacklist entries suppress fetching by substring match; the URL is
	// linked by hostname instead.
	Blacklist []string

	// IgnoreCodeRegions leaves pastes inside inline code or fenced blocks
	// untouched.
	IgnoreCodeRegions bool

	// Dispatch runs buffer mutations on the host's UI thread. The default
	// calls the function inline; hosts that hand over an asynchronous
	// scheduler must run the function before Wait observers may rely on
	// Applied.
	Dispatch func(func())
}

// Handle tracks one invocation through to buffer reconciliation.
type Handle struct {
	done    chan struct{}
	applied bool
	title   string
}

// Wait blocks until the invocation has finished reconciling the buffer.
func (h *Handle) Wait() {
	<-h.done
}

// Applied reports whether a placeholder was found and replaced with a link.
// It is only meaningful once the Dispatch hook has run the replacement: a
// Dispatch that marshals to another thread must not return until the
// function it was handed has executed.
func (h *Handle) Applied() bool {
	<-h.done
	return h.applied
}

// Title returns the resolved title, "" when no fetch happened.
func (h *Handle) Title() string {
	<-h.done
	return h.title
}

func finishedHandle() *Handle {
	h := &Handle{done: make(chan struct{})}
	close(h.done)
	return h
}

// HandlePaste converts pasted text. Plain text, images, and already-linked
// URLs are inserted unchanged; everything else goes through title
// resolution with an optimistic placeholder.
func (p *Pipeline) HandlePaste(buf buffer.TextBuffer, text string) *Handle {
	return p.convert(buf, text)
}

// HandleDrop behaves like HandlePaste; drops deliver their payload as text.
func (p *Pipeline) HandleDrop(buf buffer.TextBuffer, text string) *Handle {
	return p.convert(buf, text)
}

// EnhanceAtCursor converts the selected URL, or the URL under the cursor
// when nothing is selected.
func (p *Pipeline) EnhanceAtCursor(buf buffer.TextBuffer) *Handle {
	sel := buf.Selection()
	if sel == "" {
		cur := buf.Cursor()
		line := buf.Line(cur.Line)
		for _, span := range classify.FindURLs(line) {
			if cur.Ch >= span.Start && cur.Ch <= span.End {
				buf.SetSelection(
					buffer.Pos{Line: cur.Line, Ch: span.Start},
					buffer.Pos{Line: cur.Line, Ch: span.End},
				)
				sel = line[span.Start:span.End]
				break
			}
		}
	}
	if sel == "" {
		return finishedHandle()
	}
	return p.convert(buf, sel)
}

func (p *Pipeline) convert(buf buffer.TextBuffer, text string) *Handle {
	c := classify.Classify(text)
	if c.Kind != classify.PlainURL {
		p.dispatch(func() { buf.ReplaceSelection(text) })
		return finishedHandle()
	}

	if p.IgnoreCodeRegions && inCodeRegion(buf) {
		p.dispatch(func() { buf.ReplaceSelection(text) })
		return finishedHandle()
	}

	target := classify.Normalize(c.URL)
	if blacklist.Match(target, p.Blacklist) {
		link := "[" + hostname(target) + "](" + c.URL + ")"
		p.dispatch(func() { buf.ReplaceSelection(link) })
		return finishedHandle()
	}

	// The optimistic edit: the placeholder goes in before any network
	// traffic so the user sees immediate feedback.
	token := p.Tokens.New()
	p.dispatch(func() { buf.ReplaceSelection(token) })

	h := &Handle{done: make(chan struct{})}
	go p.resolve(buf, h, token, c.URL, target)
	return h
}

// resolve runs the fetch and reconciles the result into the buffer. The
// placeholder is located by content re-scan of the full buffer, so edits
// elsewhere while the fetch was in flight cannot misplace the replacement.
func (p *Pipeline) resolve(buf buffer.TextBuffer, h *Handle, token, display, target string) {
	defer close(h.done)

	job := uuid.NewString()
	log := p.Log.With().Str("job", job).Str("url", target).Logger()

	resolved := p.Resolver.Resolve(context.Background(), target)
	h.title = resolved
	link := "[" + resolved + "](" + display + ")"

	p.dispatch(func() {
		value := buf.Value()
		idx := strings.Index(value, token)
		if idx < 0 {
			// The user edited the placeholder away. Not an error; the
			// buffer is theirs.
			log.Warn().Msg("placeholder no longer present, abandoning replacement")
			return
		}
		from := buffer.PosAt(value, idx)
		to := buffer.PosAt(value, idx+len(token))
		buf.ReplaceRange(link, from, to)
		h.applied = true
		log.Debug().Str("title", resolved).Msg("placeholder replaced")
	})
}

func (p *Pipeline) dispatch(fn func()) {
	if p.Dispatch != nil {
		p.Dispatch(fn)
		return
	}
	fn()
}

// inCodeRegion reports whether the cursor sits inside inline code (odd
// number of backticks before it on the line) or a fenced block (odd number
// of ``` fences on the lines above).
func inCodeRegion(buf buffer.TextBuffer) bool {
	cur := buf.Cursor()

	line := buf.Line(cur.Line)
	ch := cur.Ch
	if ch > len(line) {
		ch = len(line)
	}
	if strings.Count(line[:ch], "`")%2 == 1 {
		return true
	}

	fences := 0
	for i := 0; i < cur.Line; i++ {
		if strings.HasPrefix(strings.TrimSpace(buf.Line(i)), "```") {
			fences++
		}
	}
	return fences%2 == 1
}

func hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
