package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/umbralabs/umbra/models"
	"github.com/umbralabs/umbra/scraper"
)

// Scrape returns a handler for POST /api/v1/scrape.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Engine.ScrapeWithTimeout → parsed page  (records navigation_ms)
//  3. Render the requested format             (records parse_ms)
//  4. Fill Timing, return 200.
//
// A navigation that hit its deadline still returns 200, with partial
// set, so callers can distinguish a degraded result from a failed one.
func Scrape(e *scraper.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		navStart := time.Now()
		page, err := e.ScrapeWithTimeout(c.Request.Context(), req.URL,
			time.Duration(req.Timeout)*time.Second)
		navigationMs := time.Since(navStart).Milliseconds()

		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				NavigationMs: navigationMs,
			})
			return
		}

		parseStart := time.Now()
		resp := models.ScrapeResponse{
			Success: true,
			Partial: page.Partial,
			URL:     req.URL,
		}
		switch req.Format {
		case "markdown":
			md, mdErr := page.Markdown()
			if mdErr != nil {
				respondError(c, mdErr, models.TimingInfo{
					TotalMs:      time.Since(totalStart).Milliseconds(),
					NavigationMs: navigationMs,
					ParseMs:      time.Since(parseStart).Milliseconds(),
				})
				return
			}
			resp.Content = md
		case "html":
			resp.Content = page.HTML()
		case "links":
			resp.Links = page.Links()
		default:
			resp.Content = strings.TrimSpace(page.Text())
		}
		resp.Timing = models.TimingInfo{
			TotalMs:      time.Since(totalStart).Milliseconds(),
			NavigationMs: navigationMs,
			ParseMs:      time.Since(parseStart).Milliseconds(),
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps a ScrapeError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(scrapeErr), models.ScrapeResponse{
		Success: false,
		Error:   scrapeErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
