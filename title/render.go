package title

import (
	"context"

	"github.com/rs/zerolog"

	"linktitle/fetcher"
)

// Render resolves titles with an off-screen browser, for pages whose titles
// only exist after script has run. The browser reads the rendered document
// title directly, so no HTML parsing happens here.
type Render struct {
	Fetcher *fetcher.Client
	Log     zerolog.Logger
}

// Fetch implements Strategy.
func (r *Render) Fetch(ctx context.Context, rawURL string) string {
	title, err := r.Fetcher.RenderTitle(ctx, rawURL)
	if err != nil {
		r.Log.Debug().Err(err).Str("url", rawURL).Msg("render fetch failed")
		return ""
	}
	return title
}
