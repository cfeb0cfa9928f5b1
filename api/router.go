// Package api wires the HTTP surface over the scraping engine.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/umbralabs/umbra/api/handler"
	"github.com/umbralabs/umbra/api/middleware"
	"github.com/umbralabs/umbra/config"
	"github.com/umbralabs/umbra/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled)
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(e *scraper.Engine, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(e, startTime))

	// Protected group.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}

	protected.POST("/scrape", handler.Scrape(e))

	return r
}
