package pipeline

import (
	"github.com/rs/zerolog"

	"linktitle/blacklist"
	"linktitle/config"
	"linktitle/fetcher"
	"linktitle/messages"
	"linktitle/placeholder"
	"linktitle/title"
)

// New wires a pipeline from a config snapshot. notify receives user-visible
// warnings (for the host to surface as a notice) and may be nil, in which
// case warnings only reach the log.
func New(cfg config.Config, log zerolog.Logger, notify func(string)) *Pipeline {
	msgs := messages.Default()

	client := fetcher.New(fetcher.Options{
		UserAgent:      cfg.Network.UserAgent,
		TimeoutSeconds: cfg.Network.TimeoutSeconds,
		ChromePath:     cfg.Network.ChromePath,
	})

	resolver := &title.Resolver{
		Scrape: &title.Scrape{
			Fetcher:  client,
			UseProxy: cfg.Fetch.UseProxyRewrite,
			Messages: msgs,
			Log:      log,
		},
		MaxLength: cfg.Fetch.MaxTitleLength,
		Messages:  msgs,
		Log:       log,
	}

	if cfg.Fetch.MetadataAPIKey != "" {
		resolver.Metadata = &title.MetadataAPI{
			Key:     cfg.Fetch.MetadataAPIKey,
			Notify:  notify,
			Warning: msgs.InvalidKeyWarning,
			Log:     log,
		}
	}

	// The render strategy only exists where a browser does.
	if cfg.Fetch.UseAlternateScraper && client.ChromeAvailable() {
		resolver.Render = &title.Render{Fetcher: client, Log: log}
		resolver.UseRender = true
	}

	mode := placeholder.Suffix
	if cfg.Placeholder.Mode == "zero-width" {
		mode = placeholder.ZeroWidth
	}

	return &Pipeline{
		Resolver:          resolver,
		Tokens:            placeholder.Generator{Base: msgs.FetchingTitle, Mode: mode},
		Messages:          msgs,
		Log:               log,
		Blacklist:         blacklist.Parse(cfg.Fetch.Blacklist),
		IgnoreCodeRegions: cfg.Fetch.IgnoreCodeRegions,
	}
}
