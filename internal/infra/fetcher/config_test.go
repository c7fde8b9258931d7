package fetcher

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected Timeout=10s, got %v", cfg.Timeout)
	}
	if cfg.MaxHTMLBytes != 5*1024*1024 {
		t.Errorf("expected MaxHTMLBytes=5MB, got %d", cfg.MaxHTMLBytes)
	}
	if cfg.MaxBinaryBytes != 10*1024*1024 {
		t.Errorf("expected MaxBinaryBytes=10MB, got %d", cfg.MaxBinaryBytes)
	}
	if cfg.MaxRedirects != 3 {
		t.Errorf("expected MaxRedirects=3, got %d", cfg.MaxRedirects)
	}
	if !cfg.FollowRedirects {
		t.Error("expected FollowRedirects=true")
	}
	if !cfg.DenyPrivateIPs {
		t.Error("expected DenyPrivateIPs=true")
	}
	if cfg.ResolveHosts {
		t.Error("expected ResolveHosts=false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"html limit too small", func(c *Config) { c.MaxHTMLBytes = 100 }, true},
		{"binary below html", func(c *Config) { c.MaxBinaryBytes = c.MaxHTMLBytes - 1 }, true},
		{"negative redirects", func(c *Config) { c.MaxRedirects = -1 }, true},
		{"excessive redirects", func(c *Config) { c.MaxRedirects = 11 }, true},
		{"empty user agent", func(c *Config) { c.UserAgent = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("FETCH_MAX_REDIRECTS", "5")
	t.Setenv("FETCH_DENY_PRIVATE_IPS", "false")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}

	if cfg.Timeout != 3*time.Second {
		t.Errorf("expected Timeout=3s, got %v", cfg.Timeout)
	}
	if cfg.MaxRedirects != 5 {
		t.Errorf("expected MaxRedirects=5, got %d", cfg.MaxRedirects)
	}
	if cfg.DenyPrivateIPs {
		t.Error("expected DenyPrivateIPs=false")
	}
	// Untouched fields keep their defaults.
	if cfg.MaxHTMLBytes != 5*1024*1024 {
		t.Errorf("expected default MaxHTMLBytes, got %d", cfg.MaxHTMLBytes)
	}
}

func TestLoadConfigFromEnv_InvalidValue(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "not-a-duration")

	if _, err := LoadConfigFromEnv(); err == nil {
		t.Error("expected error for malformed FETCH_TIMEOUT")
	}
}
