package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentConfig represents content rule configuration: the SPA domain
// denylist, the iframe embed whitelist, and quality keyword overrides.
// These rules change more often than code ships, so they live in a YAML
// file operators can edit.
type ContentConfig struct {
	Content struct {
		SPA struct {
			Denylist        []string          `yaml:"denylist"`
			OEmbedEndpoints map[string]string `yaml:"oembed_endpoints"`
		} `yaml:"spa"`
		Sanitizer struct {
			IframeWhitelist []string `yaml:"iframe_whitelist"`
			MaxImages       int      `yaml:"max_images"`
		} `yaml:"sanitizer"`
		Quality struct {
			ExtraPaywallKeywords []string `yaml:"extra_paywall_keywords"`
			ExtraLoginKeywords   []string `yaml:"extra_login_keywords"`
		} `yaml:"quality"`
	} `yaml:"content"`
}

// LoadContentConfig loads content rules from a YAML file.
// The path parameter is expected to come from a trusted source (command-line argument or hardcoded default).
func LoadContentConfig(path string) (*ContentConfig, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ContentConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateContentConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// validateContentConfig validates the loaded configuration.
func validateContentConfig(config *ContentConfig) error {
	for _, domain := range config.Content.SPA.Denylist {
		if domain == "" || strings.ContainsAny(domain, "/ ") {
			return fmt.Errorf("invalid spa denylist entry: %q", domain)
		}
	}

	for domain, endpoint := range config.Content.SPA.OEmbedEndpoints {
		if !strings.HasPrefix(endpoint, "https://") {
			return fmt.Errorf("oembed endpoint for %s must be https", domain)
		}
	}

	for _, domain := range config.Content.Sanitizer.IframeWhitelist {
		if domain == "" || strings.ContainsAny(domain, "/ ") {
			return fmt.Errorf("invalid iframe whitelist entry: %q", domain)
		}
	}

	if config.Content.Sanitizer.MaxImages < 0 {
		return fmt.Errorf("max_images must not be negative")
	}

	return nil
}

// GetSPADenylist returns the configured SPA domain denylist.
func (c *ContentConfig) GetSPADenylist() []string {
	return c.Content.SPA.Denylist
}

// GetOEmbedEndpoints returns the per-domain oEmbed endpoint map.
func (c *ContentConfig) GetOEmbedEndpoints() map[string]string {
	return c.Content.SPA.OEmbedEndpoints
}

// GetIframeWhitelist returns the iframe embed whitelist.
func (c *ContentConfig) GetIframeWhitelist() []string {
	return c.Content.Sanitizer.IframeWhitelist
}

// GetMaxImages returns the per-document image cap, 0 meaning unlimited.
func (c *ContentConfig) GetMaxImages() int {
	return c.Content.Sanitizer.MaxImages
}

// GetExtraPaywallKeywords returns operator-supplied paywall keywords.
func (c *ContentConfig) GetExtraPaywallKeywords() []string {
	return c.Content.Quality.ExtraPaywallKeywords
}

// GetExtraLoginKeywords returns operator-supplied login keywords.
func (c *ContentConfig) GetExtraLoginKeywords() []string {
	return c.Content.Quality.ExtraLoginKeywords
}
