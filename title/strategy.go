// Package title resolves a display title for a URL. Three interchangeable
// strategies share one contract: a keyed metadata API, a lightweight HTTP
// scrape, and a headless-browser render. The resolver tries them in cost
// order and post-processes whatever comes back into a string that is safe to
// drop into a markdown link.
package title

import (
	"context"

	"github.com/rs/zerolog"

	"linktitle/messages"
	"linktitle/mirror"
)

// Strategy produces a title for a URL. Implementations never return an
// error: any failure collapses to an empty string so the caller can move on
// to the next strategy. A non-empty sentinel (such as the unreachable
// notice) is final and stops the fallback chain.
type Strategy interface {
	Fetch(ctx context.Context, rawURL string) string
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(ctx context.Context, rawURL string) string

// Fetch implements Strategy.
func (f StrategyFunc) Fetch(ctx context.Context, rawURL string) string {
	return f(ctx, rawURL)
}

// Resolver drives the strategies. The metadata API is cheapest for the user
// and most reliable where it works, the scrape is free but misses
// script-rendered titles, and the render handles those but is slow and
// desktop-only; hence the ordering.
type Resolver struct {
	Metadata Strategy // optional; tried first when present
	Scrape   Strategy
	Render   Strategy // optional, desktop-only

	// UseRender prefers the render strategy over the scrape as the
	// fallback. Social-media URLs ignore it and always scrape through the
	// mirror.
	UseRender bool

	// MaxLength caps titles at this many runes, 0 = unlimited.
	MaxLength int

	Messages messages.Set
	Log      zerolog.Logger
}

// Resolve returns a display title for the URL. It never fails: strategy
// failures fall through to the next strategy, an all-empty outcome becomes
// the unavailable message, and anything escaping a strategy is converted to
// the fixed error message.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (result string) {
	defer func() {
		if p := recover(); p != nil {
			r.Log.Error().Interface("panic", p).Str("url", rawURL).Msg("title fetch panicked")
			result = r.Messages.ErrorFetching
		}
	}()

	raw := ""
	if r.Metadata != nil {
		raw = r.Metadata.Fetch(ctx, rawURL)
	}
	if raw == "" {
		raw = r.fallback(ctx, rawURL)
	}

	title := Clean(raw)
	if title == "" {
		return r.Messages.TitleUnavailable
	}
	return Truncate(EscapeMarkdown(title), r.MaxLength)
}

func (r *Resolver) fallback(ctx context.Context, rawURL string) string {
	if r.UseRender && r.Render != nil && !mirror.IsSocial(rawURL) {
		return r.Render.Fetch(ctx, rawURL)
	}
	return r.Scrape.Fetch(ctx, rawURL)
}
