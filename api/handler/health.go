package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/umbralabs/umbra/models"
	"github.com/umbralabs/umbra/scraper"
)

// Health returns a handler for GET /api/v1/health.
func Health(e *scraper.Engine, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Engine:  e.Stats(),
			Version: "0.1.0",
		})
	}
}
