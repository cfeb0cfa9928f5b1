package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/umbralabs/umbra/api"
	"github.com/umbralabs/umbra/config"
	"github.com/umbralabs/umbra/htmlparser"
	"github.com/umbralabs/umbra/models"
	"github.com/umbralabs/umbra/scraper"
)

func main() {
	var (
		serve   = flag.Bool("serve", false, "run the HTTP API server instead of a one-shot scrape")
		url     = flag.String("url", "", "URL to scrape (one-shot mode)")
		timeout = flag.Duration("timeout", 0, "navigation deadline for the one-shot scrape")
		format  = flag.String("format", "text", "output format: text, markdown, html, links")
	)
	flag.Parse()

	cfg := config.Load()
	initLogger(cfg.Log)

	engineCfg, err := engineConfig(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if *serve {
		runServer(cfg, engineCfg)
		return
	}

	if *url == "" {
		fmt.Fprintln(os.Stderr, "usage: umbra -url <url> [-timeout 30s] [-format text|markdown|html|links]")
		fmt.Fprintln(os.Stderr, "       umbra -serve")
		os.Exit(2)
	}
	runOnce(engineCfg, *url, *timeout, *format)
}

// runServer starts the HTTP API and blocks until a shutdown signal.
func runServer(cfg *config.Config, engineCfg scraper.Config) {
	slog.Info("umbra starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
	)

	eng, err := scraper.New(engineCfg)
	if err != nil {
		slog.Error("failed to initialise engine", "error", err)
		os.Exit(1)
	}
	defer eng.Close()

	startTime := time.Now()
	router := api.NewRouter(eng, cfg, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// eng.Close() runs via defer — closes pages and kills Chrome.
	slog.Info("umbra stopped")
}

// runOnce performs a single scrape and prints the result to stdout.
func runOnce(engineCfg scraper.Config, url string, timeout time.Duration, format string) {
	eng, err := scraper.New(engineCfg)
	if err != nil {
		slog.Error("failed to initialise engine", "error", err)
		os.Exit(1)
	}
	defer eng.Close()

	page, err := eng.ScrapeWithTimeout(context.Background(), url, timeout)
	if err != nil {
		slog.Error("scrape failed", "url", url, "error", err)
		os.Exit(1)
	}
	if page.Partial {
		slog.Warn("deadline exceeded, output is partial", "url", url)
	}

	switch format {
	case "markdown":
		md, err := page.Markdown()
		if err != nil {
			slog.Error("markdown conversion failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(md)
	case "html":
		fmt.Println(page.HTML())
	case "links":
		for _, l := range page.Links() {
			fmt.Println(l)
		}
	default:
		fmt.Println(strings.TrimSpace(page.Text()))
	}
}

// engineConfig assembles the engine configuration from the environment.
func engineConfig(cfg *config.Config) (scraper.Config, error) {
	kind, err := htmlparser.ParseKind(cfg.Scraper.Parser)
	if err != nil {
		return scraper.Config{}, err
	}

	ec := scraper.Config{
		Headless:         cfg.Browser.Headless,
		NewPagePerScrape: cfg.Browser.NewPagePerScrape,
		NoSandbox:        cfg.Browser.NoSandbox,
		BrowserBin:       cfg.Browser.BrowserBin,
		Timeout:          cfg.Scraper.DefaultTimeout,
		ParserKind:       kind,
	}

	mode, err := models.ParseBrowsingMode(cfg.Scraper.BrowsingMode)
	if err != nil {
		return scraper.Config{}, err
	}
	ec.Mode = mode

	if cfg.Browser.Proxy != "" {
		ec.Proxy = &models.Proxy{
			Server:   cfg.Browser.Proxy,
			Bypass:   cfg.Browser.ProxyBypass,
			Username: cfg.Browser.ProxyUser,
			Password: cfg.Browser.ProxyPass,
		}
	}

	if cfg.Scraper.SessionFile != "" {
		session, err := models.LoadSession(cfg.Scraper.SessionFile)
		if err != nil {
			return scraper.Config{}, err
		}
		ec.Session = session
	}

	return ec, nil
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
