// Package scraper implements the browser session and anti-detection
// engine. One Engine owns one Chromium process and one incognito browser
// context; the context is built from a fingerprint profile, masked by
// injected stealth scripts, and optionally seeded with a captured
// authenticated session before the first navigation.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"

	"github.com/umbralabs/umbra/fingerprint"
	"github.com/umbralabs/umbra/htmlparser"
	"github.com/umbralabs/umbra/models"
)

// DefaultTimeout is the per-scrape navigation deadline when the config
// does not set one.
const DefaultTimeout = 30 * time.Second

// Config describes one engine. It is copied at construction and immutable
// afterwards.
type Config struct {
	// Headless controls whether the browser runs without UI. The zero
	// value is headful; config.Load defaults this to true.
	Headless bool

	// NewPagePerScrape opens a fresh tab for every scrape instead of
	// reusing one. Required for concurrent Scrape calls: pages are
	// exclusively owned by whoever holds them, and the engine does no
	// internal scheduling across tabs.
	NewPagePerScrape bool

	// LaunchFlags are extra Chromium flags merged over the baseline set.
	LaunchFlags map[string]string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy routes all context traffic when set.
	Proxy *models.Proxy

	// Session is a captured authenticated state to replay: cookies are
	// added to the context at construction, storage is injected when the
	// first page is created.
	Session *models.Session

	// Mode overrides the resolved browsing behavior. Empty means resolve
	// from proxy/session presence (see ResolveMode).
	Mode models.BrowsingMode

	// ParserKind selects the HTML parsing strategy for scrape results.
	ParserKind htmlparser.Kind

	// Timeout is the default per-scrape deadline. Default: 30s.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ParserKind == "" {
		c.ParserKind = htmlparser.KindHTML5
	}
	return c
}

// Engine is the browser session orchestrator. Safe for concurrent Scrape
// calls only with NewPagePerScrape; see Config.
type Engine struct {
	cfg      Config
	profile  fingerprint.Profile
	mode     models.BrowsingMode
	browser  *rod.Browser
	context  *rod.Browser // incognito context; at most one per engine
	restorer sessionRestorer
	dwell    func(context.Context) error

	mu    sync.Mutex
	pages []*rod.Page

	closeOnce sync.Once
}

// New launches a browser and builds the engine's execution context.
//
// Construction order matters and is fixed: launch → context creation →
// cookie injection. Stealth installation and the emulated environment are
// applied per page (before its first navigation), and storage restoration
// happens once, when the first page is created.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()

	if cfg.Proxy != nil {
		if err := cfg.Proxy.Validate(); err != nil {
			return nil, err
		}
		slog.Info("using proxy", "server", cfg.Proxy.Server)
	}
	if cfg.Session != nil {
		if err := cfg.Session.Validate(); err != nil {
			return nil, err
		}
		slog.Info("using captured session", "site", cfg.Session.Site, "cookies", len(cfg.Session.Cookies))
	}

	profile := fingerprint.Default()
	if cfg.Session != nil && cfg.Session.Fingerprint != nil {
		profile = *cfg.Session.Fingerprint
	}
	profile = profile.Resolved()

	mode := ResolveMode(cfg.Mode, cfg.Proxy != nil, cfg.Session != nil)

	controlURL, err := buildLauncher(cfg).Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL, "headless", cfg.Headless)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	// Target sites with broken certificates are still worth scraping.
	if err := browser.IgnoreCertErrors(true); err != nil {
		_ = browser.Close()
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to relax certificate checks", err)
	}

	inc, err := browser.Incognito()
	if err != nil {
		_ = browser.Close()
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to create browser context", err)
	}

	if cfg.Proxy != nil && cfg.Proxy.Username != "" {
		handleProxyAuth(inc, cfg.Proxy.Username, cfg.Proxy.Password)
	}

	e := &Engine{
		cfg:      cfg,
		profile:  profile,
		mode:     mode,
		browser:  browser,
		context:  inc,
		restorer: sessionRestorer{session: cfg.Session},
		dwell:    randomDwell,
	}

	if cfg.Session != nil && len(cfg.Session.Cookies) > 0 {
		if err := inc.SetCookies(cookieParams(cfg.Session.Cookies)); err != nil {
			e.Close()
			return nil, models.NewScrapeError(models.ErrCodeSessionRestore, "failed to add session cookies", err)
		}
		slog.Debug("session cookies added", "count", len(cfg.Session.Cookies))
	}

	slog.Info("engine initialised", "mode", mode)
	return e, nil
}

// handleProxyAuth answers the browser's proxy authentication challenges
// for the lifetime of the connection.
func handleProxyAuth(browser *rod.Browser, username, password string) {
	go func() {
		for {
			wait := browser.HandleAuth(username, password)
			if err := wait(); err != nil {
				return
			}
		}
	}()
}

// Mode returns the resolved browsing behavior.
func (e *Engine) Mode() models.BrowsingMode { return e.mode }

// Profile returns the resolved fingerprint profile in use.
func (e *Engine) Profile() fingerprint.Profile { return e.profile }

// Stats returns a snapshot of the engine's state.
func (e *Engine) Stats() models.EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.EngineStats{
		Mode:             e.mode,
		Pages:            len(e.pages),
		NewPagePerScrape: e.cfg.NewPagePerScrape,
	}
}

// Scrape navigates to url with the engine's default deadline and returns
// the parsed page content.
func (e *Engine) Scrape(ctx context.Context, url string) (*htmlparser.Parser, error) {
	return e.ScrapeWithTimeout(ctx, url, e.cfg.Timeout)
}

// ScrapeWithTimeout navigates to url and returns the parsed page content.
//
// A navigation that exceeds the deadline is not an error: whatever DOM
// content exists at expiry is returned with the parser's Partial flag
// set. Any other navigation failure is returned as a ScrapeError wrapping
// the cause; the page is left as-is and not recreated.
func (e *Engine) ScrapeWithTimeout(ctx context.Context, url string, timeout time.Duration) (*htmlparser.Parser, error) {
	if timeout <= 0 {
		timeout = e.cfg.Timeout
	}
	slog.Info("scraping", "url", url, "timeout", timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := e.acquirePage(ctx)
	if err != nil {
		return nil, err
	}

	html, partial, err := navigateAndSettle(ctx, &rodSession{page: page}, url, e.mode, e.dwell)
	if err != nil {
		return nil, wrapScrapeFailure(url, err)
	}
	if partial {
		slog.Warn("navigation deadline exceeded, returning partial content",
			"url", url, "timeout", timeout)
	}

	parser, err := htmlparser.New(url, html, e.cfg.ParserKind)
	if err != nil {
		return nil, err
	}
	parser.Partial = partial

	slog.Info("scrape complete", "url", url, "partial", partial)
	return parser, nil
}

// wrapScrapeFailure normalizes a navigation failure to a single
// causally-chained ScrapeError carrying the originating URL.
func wrapScrapeFailure(url string, err error) error {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return err
	}
	return models.NewScrapeError(
		models.ErrCodeNavigation,
		fmt.Sprintf("scraping failed for %s", url),
		err,
	)
}

// Close releases all pages, the context and the browser process. It is
// idempotent and never fails: teardown problems are logged and swallowed.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		pages := e.pages
		e.pages = nil
		e.mu.Unlock()

		for _, p := range pages {
			if err := p.Close(); err != nil {
				slog.Debug("page close failed", "error", err)
			}
		}
		if err := e.browser.Close(); err != nil {
			slog.Debug("browser close failed", "error", err)
		}
		slog.Info("engine closed")
	})
}
