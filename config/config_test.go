package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults: %+v", cfg.Server)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless should default to true")
	}
	if cfg.Browser.NewPagePerScrape {
		t.Error("NewPagePerScrape should default to false")
	}
	if cfg.Scraper.DefaultTimeout != 30*time.Second {
		t.Errorf("DefaultTimeout = %v", cfg.Scraper.DefaultTimeout)
	}
	if cfg.Scraper.Parser != "html5" {
		t.Errorf("Parser = %q", cfg.Scraper.Parser)
	}
	if !cfg.Auth.Enabled {
		t.Error("Auth should default to enabled")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults: %+v", cfg.Log)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("UMBRA_PORT", "9090")
	t.Setenv("UMBRA_HEADLESS", "false")
	t.Setenv("UMBRA_NEW_PAGE_PER_SCRAPE", "true")
	t.Setenv("UMBRA_PROXY", "socks5://proxy:1080")
	t.Setenv("UMBRA_BROWSING_MODE", "fast")
	t.Setenv("UMBRA_DEFAULT_TIMEOUT", "45s")
	t.Setenv("UMBRA_API_KEYS", "key-a, key-b")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Browser.Headless {
		t.Error("Headless not overridden")
	}
	if !cfg.Browser.NewPagePerScrape {
		t.Error("NewPagePerScrape not overridden")
	}
	if cfg.Browser.Proxy != "socks5://proxy:1080" {
		t.Errorf("Proxy = %q", cfg.Browser.Proxy)
	}
	if cfg.Scraper.BrowsingMode != "fast" {
		t.Errorf("BrowsingMode = %q", cfg.Scraper.BrowsingMode)
	}
	if cfg.Scraper.DefaultTimeout != 45*time.Second {
		t.Errorf("DefaultTimeout = %v", cfg.Scraper.DefaultTimeout)
	}
	if len(cfg.Auth.APIKeys) != 2 || cfg.Auth.APIKeys[1] != "key-b" {
		t.Errorf("APIKeys = %v", cfg.Auth.APIKeys)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("UMBRA_PORT", "not-a-number")
	t.Setenv("UMBRA_HEADLESS", "maybe")
	t.Setenv("UMBRA_DEFAULT_TIMEOUT", "soon")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("bad port not ignored: %d", cfg.Server.Port)
	}
	if !cfg.Browser.Headless {
		t.Error("bad bool not ignored")
	}
	if cfg.Scraper.DefaultTimeout != 30*time.Second {
		t.Errorf("bad duration not ignored: %v", cfg.Scraper.DefaultTimeout)
	}
}
