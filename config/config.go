// Package config provides configuration loading for linktitle using TOML.
// Settings are read once per invocation and never mutated by the pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Fetch settings control title resolution.
type Fetch struct {
	// MetadataAPIKey enables the metadata API strategy when it has the
	// provider's expected shape.
	MetadataAPIKey string `toml:"metadata_api_key"`

	// UseAlternateScraper prefers the headless render over the HTTP scrape
	// as the fallback strategy, when a browser is available.
	UseAlternateScraper bool `toml:"use_alternate_scraper"`

	// UseProxyRewrite routes recognized social-media URLs through their
	// mirror hosts.
	UseProxyRewrite bool `toml:"use_proxy_rewrite"`

	// MaxTitleLength caps titles at this many characters, 0 = unlimited.
	MaxTitleLength int `toml:"max_title_length"`

	// IgnoreCodeRegions leaves pastes into code blocks and inline code
	// untouched.
	IgnoreCodeRegions bool `toml:"ignore_code_regions"`

	// Blacklist is a comma- or newline-separated list of substrings whose
	// URLs are linked by hostname without any fetch.
	Blacklist string `toml:"blacklist"`
}

// Network settings shared by all strategies.
type Network struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	ChromePath     string `toml:"chrome_path"` // empty = auto-detect
}

// Placeholder settings control the in-flight token style.
type Placeholder struct {
	// Mode is "suffix" (visible random tag) or "zero-width" (visually
	// identical tokens).
	Mode string `toml:"mode"`
}

// Config is the root configuration.
type Config struct {
	Fetch       Fetch       `toml:"fetch"`
	Network     Network     `toml:"network"`
	Placeholder Placeholder `toml:"placeholder"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Fetch: Fetch{
			UseProxyRewrite:   true,
			MaxTitleLength:    0,
			IgnoreCodeRegions: true,
		},
		Network: Network{
			TimeoutSeconds: 10,
		},
		Placeholder: Placeholder{
			Mode: "suffix",
		},
	}
}

// ConfigPath returns the expected location of the user config file.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "linktitle", "config.toml"), nil
}

// Load reads the config at path, layered on top of the defaults. An empty
// path means the default location; a missing file is not an error and
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := ConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return normalize(cfg), nil
}

func normalize(cfg Config) Config {
	if cfg.Fetch.MaxTitleLength < 0 {
		cfg.Fetch.MaxTitleLength = 0
	}
	if cfg.Network.TimeoutSeconds <= 0 {
		cfg.Network.TimeoutSeconds = Default().Network.TimeoutSeconds
	}
	if cfg.Placeholder.Mode != "zero-width" {
		cfg.Placeholder.Mode = "suffix"
	}
	return cfg
}
