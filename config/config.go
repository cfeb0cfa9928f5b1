// Package config loads application configuration from environment
// variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Browser BrowserConfig
	Scraper ScraperConfig
	Auth    AuthConfig
	Log     LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NewPagePerScrape opens a fresh tab per scrape instead of reusing
	// one. Required for concurrent requests.
	NewPagePerScrape bool // default: false

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy routes all browser traffic through the given server
	// ("scheme://host:port").
	Proxy string

	// ProxyBypass is a comma-separated host list that skips the proxy.
	ProxyBypass string

	// ProxyUser and ProxyPass answer the proxy's auth challenge.
	ProxyUser string
	ProxyPass string
}

// ScraperConfig controls scraping behavior.
type ScraperConfig struct {
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout time.Duration // default: 30s

	// SessionFile is the path to a captured session JSON to replay.
	SessionFile string

	// BrowsingMode forces "fast" or "human_like"; empty resolves
	// automatically from proxy and session presence.
	BrowsingMode string

	// Parser selects the HTML parsing strategy: "html5" or "tokenizer".
	Parser string // default: "html5"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys (for MVP; replace with DB later).
	APIKeys []string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("UMBRA_HOST", "0.0.0.0"),
			Port: envIntOr("UMBRA_PORT", 8080),
			Mode: envOr("UMBRA_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:         envBoolOr("UMBRA_HEADLESS", true),
			NewPagePerScrape: envBoolOr("UMBRA_NEW_PAGE_PER_SCRAPE", false),
			NoSandbox:        envBoolOr("UMBRA_NO_SANDBOX", false),
			BrowserBin:       os.Getenv("UMBRA_BROWSER_BIN"),
			Proxy:            os.Getenv("UMBRA_PROXY"),
			ProxyBypass:      os.Getenv("UMBRA_PROXY_BYPASS"),
			ProxyUser:        os.Getenv("UMBRA_PROXY_USER"),
			ProxyPass:        os.Getenv("UMBRA_PROXY_PASS"),
		},
		Scraper: ScraperConfig{
			DefaultTimeout: envDurationOr("UMBRA_DEFAULT_TIMEOUT", 30*time.Second),
			SessionFile:    os.Getenv("UMBRA_SESSION_FILE"),
			BrowsingMode:   os.Getenv("UMBRA_BROWSING_MODE"),
			Parser:         envOr("UMBRA_PARSER", "html5"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("UMBRA_AUTH_ENABLED", true),
			APIKeys: envSliceOr("UMBRA_API_KEYS", nil),
		},
		Log: LogConfig{
			Level:  envOr("UMBRA_LOG_LEVEL", "info"),
			Format: envOr("UMBRA_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
