package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeContentFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadContentConfig(t *testing.T) {
	path := writeContentFile(t, `
content:
  spa:
    denylist:
      - twitter.com
      - instagram.com
    oembed_endpoints:
      twitter.com: https://publish.twitter.com/oembed
  sanitizer:
    iframe_whitelist:
      - youtube.com
      - vimeo.com
    max_images: 50
  quality:
    extra_paywall_keywords:
      - "members only"
`)

	cfg, err := LoadContentConfig(path)
	if err != nil {
		t.Fatalf("LoadContentConfig() error = %v", err)
	}

	if got := cfg.GetSPADenylist(); len(got) != 2 || got[0] != "twitter.com" {
		t.Errorf("GetSPADenylist() = %v", got)
	}
	if got := cfg.GetOEmbedEndpoints()["twitter.com"]; got != "https://publish.twitter.com/oembed" {
		t.Errorf("GetOEmbedEndpoints() = %q", got)
	}
	if got := cfg.GetIframeWhitelist(); len(got) != 2 {
		t.Errorf("GetIframeWhitelist() = %v", got)
	}
	if got := cfg.GetMaxImages(); got != 50 {
		t.Errorf("GetMaxImages() = %d, want 50", got)
	}
	if got := cfg.GetExtraPaywallKeywords(); len(got) != 1 || got[0] != "members only" {
		t.Errorf("GetExtraPaywallKeywords() = %v", got)
	}
}

func TestLoadContentConfig_MissingFile(t *testing.T) {
	if _, err := LoadContentConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadContentConfig() succeeded for missing file")
	}
}

func TestLoadContentConfig_InvalidYAML(t *testing.T) {
	path := writeContentFile(t, "content: [not a map")
	if _, err := LoadContentConfig(path); err == nil {
		t.Error("LoadContentConfig() succeeded for malformed YAML")
	}
}

func TestLoadContentConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "denylist entry with path",
			body: "content:\n  spa:\n    denylist:\n      - twitter.com/user\n",
		},
		{
			name: "plaintext oembed endpoint",
			body: "content:\n  spa:\n    oembed_endpoints:\n      x.com: http://insecure.example/oembed\n",
		},
		{
			name: "empty iframe whitelist entry",
			body: "content:\n  sanitizer:\n    iframe_whitelist:\n      - \"\"\n",
		},
		{
			name: "negative max_images",
			body: "content:\n  sanitizer:\n    max_images: -1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeContentFile(t, tt.body)
			if _, err := LoadContentConfig(path); err == nil {
				t.Error("LoadContentConfig() succeeded, want validation error")
			}
		})
	}
}
