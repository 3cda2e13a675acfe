package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIHost != "www.amiiboapi.com" {
		t.Fatalf("api host = %q", cfg.APIHost)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Fatalf("request timeout = %v", cfg.RequestTimeout)
	}
	if cfg.GrantType != "test1" || cfg.ClientID != "test2" || cfg.ClientSecret != "test2" {
		t.Fatalf("unexpected credentials %q/%q/%q", cfg.GrantType, cfg.ClientID, cfg.ClientSecret)
	}
	if cfg.PollInterval != 0 || cfg.StorageType != "none" {
		t.Fatalf("poll=%v storage=%q", cfg.PollInterval, cfg.StorageType)
	}
	if cfg.StorageTTL != 30*24*time.Hour {
		t.Fatalf("storage ttl = %v", cfg.StorageTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_HOST", "  amiibo.example.com ")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("POLL_INTERVAL", "30")
	t.Setenv("FILTER_CHARACTER", "zelda")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIHost != "amiibo.example.com" {
		t.Fatalf("api host = %q", cfg.APIHost)
	}
	if cfg.RequestTimeout != 5*time.Second || cfg.PollInterval != 30*time.Second {
		t.Fatalf("timeout=%v poll=%v", cfg.RequestTimeout, cfg.PollInterval)
	}
	if cfg.FilterCharacter != "zelda" {
		t.Fatalf("filter character = %q", cfg.FilterCharacter)
	}
}

func TestDebugForcesDebugLevel(t *testing.T) {
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug || cfg.LogLevel != "debug" {
		t.Fatalf("debug=%v level=%q", cfg.Debug, cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"API_HOST":                "   ",
		"REQUEST_TIMEOUT_SECONDS": "0",
		"POLL_INTERVAL":           "-1",
		"STORAGE_TTL_SECONDS":     "0",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, val)
			}
		})
	}
}
