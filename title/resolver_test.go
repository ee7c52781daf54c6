package title

import (
	"context"
	"testing"

	"linktitle/messages"
)

func record(result string, called *bool) StrategyFunc {
	return func(ctx context.Context, rawURL string) string {
		*called = true
		return result
	}
}

func TestResolveMetadataShortCircuits(t *testing.T) {
	scrapeCalled := false
	r := &Resolver{
		Metadata: StrategyFunc(func(ctx context.Context, rawURL string) string { return "From API" }),
		Scrape:   record("From Scrape", &scrapeCalled),
		Messages: messages.Default(),
	}

	if got := r.Resolve(context.Background(), "https://example.com"); got != "From API" {
		t.Errorf("Resolve = %q", got)
	}
	if scrapeCalled {
		t.Error("scrape must not run when the metadata API answered")
	}
}

func TestResolveFallsBackOnEmptyMetadata(t *testing.T) {
	r := &Resolver{
		Metadata: StrategyFunc(func(ctx context.Context, rawURL string) string { return "" }),
		Scrape:   StrategyFunc(func(ctx context.Context, rawURL string) string { return "  Scraped\nTitle  " }),
		Messages: messages.Default(),
	}

	// The fallback result goes through the same post-processing.
	if got := r.Resolve(context.Background(), "https://example.com"); got != "ScrapedTitle" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolvePrefersRenderWhenConfigured(t *testing.T) {
	scrapeCalled, renderCalled := false, false
	r := &Resolver{
		Scrape:    record("scrape", &scrapeCalled),
		Render:    record("rendered", &renderCalled),
		UseRender: true,
		Messages:  messages.Default(),
	}

	if got := r.Resolve(context.Background(), "https://example.com"); got != "rendered" {
		t.Errorf("Resolve = %q", got)
	}
	if scrapeCalled || !renderCalled {
		t.Errorf("scrapeCalled=%v renderCalled=%v", scrapeCalled, renderCalled)
	}
}

func TestResolveSocialURLNeverRenders(t *testing.T) {
	scrapeCalled, renderCalled := false, false
	r := &Resolver{
		Scrape:    record("scraped tweet", &scrapeCalled),
		Render:    record("rendered", &renderCalled),
		UseRender: true,
		Messages:  messages.Default(),
	}

	if got := r.Resolve(context.Background(), "https://twitter.com/user/status/1"); got != "scraped tweet" {
		t.Errorf("Resolve = %q", got)
	}
	if renderCalled {
		t.Error("social URLs must not go through the render strategy")
	}
}

func TestResolveEmptyBecomesUnavailable(t *testing.T) {
	r := &Resolver{
		Scrape:   StrategyFunc(func(ctx context.Context, rawURL string) string { return "" }),
		Messages: messages.Default(),
	}

	want := messages.Default().TitleUnavailable
	if got := r.Resolve(context.Background(), "https://example.com"); got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveAppliesEscapingAndTruncation(t *testing.T) {
	r := &Resolver{
		Scrape:    StrategyFunc(func(ctx context.Context, rawURL string) string { return "[Bracketed] and long" }),
		MaxLength: 14,
		Messages:  messages.Default(),
	}

	if got := r.Resolve(context.Background(), "https://example.com"); got != `\[Bracketed\] ...` {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolveRecoversFromPanic(t *testing.T) {
	r := &Resolver{
		Scrape: StrategyFunc(func(ctx context.Context, rawURL string) string {
			panic("strategy bug")
		}),
		Messages: messages.Default(),
	}

	want := messages.Default().ErrorFetching
	if got := r.Resolve(context.Background(), "https://example.com"); got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}
