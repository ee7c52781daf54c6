package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[fetch]
metadata_api_key = "0123456789abcdef0123456789abcdef"
max_title_length = 60
blacklist = "tiktok.com, internal"

[network]
timeout_seconds = 3

[placeholder]
mode = "zero-width"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fetch.MetadataAPIKey != "0123456789abcdef0123456789abcdef" {
		t.Errorf("MetadataAPIKey = %q", cfg.Fetch.MetadataAPIKey)
	}
	if cfg.Fetch.MaxTitleLength != 60 {
		t.Errorf("MaxTitleLength = %d", cfg.Fetch.MaxTitleLength)
	}
	if cfg.Network.TimeoutSeconds != 3 {
		t.Errorf("TimeoutSeconds = %d", cfg.Network.TimeoutSeconds)
	}
	if cfg.Placeholder.Mode != "zero-width" {
		t.Errorf("Mode = %q", cfg.Placeholder.Mode)
	}
	// Untouched sections keep their defaults.
	if !cfg.Fetch.UseProxyRewrite {
		t.Error("UseProxyRewrite default lost")
	}
	if !cfg.Fetch.IgnoreCodeRegions {
		t.Error("IgnoreCodeRegions default lost")
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[fetch]
max_title_length = -5

[network]
timeout_seconds = 0

[placeholder]
mode = "sparkles"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fetch.MaxTitleLength != 0 {
		t.Errorf("MaxTitleLength = %d, want 0", cfg.Fetch.MaxTitleLength)
	}
	if cfg.Network.TimeoutSeconds != Default().Network.TimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d", cfg.Network.TimeoutSeconds)
	}
	if cfg.Placeholder.Mode != "suffix" {
		t.Errorf("Mode = %q, want suffix", cfg.Placeholder.Mode)
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
