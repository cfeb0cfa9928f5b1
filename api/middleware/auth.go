// Package middleware holds the gin middleware for the API surface.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/umbralabs/umbra/models"
)

// Auth returns API-key authentication middleware. The key arrives either
// as an X-API-Key header or an Authorization bearer token. An empty key
// list disables the check entirely (open access).
func Auth(apiKeys []string) gin.HandlerFunc {
	keySet := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keySet[k] = struct{}{}
		}
	}
	if len(keySet) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := apiKey(c)
		if key == "" {
			reject(c, "missing API key: send X-API-Key or Authorization: Bearer <key>")
			return
		}
		if _, ok := keySet[key]; !ok {
			reject(c, "API key not recognised")
			return
		}

		c.Set("api_key", key)
		c.Next()
	}
}

// apiKey reads the key from X-API-Key first, then the bearer token.
func apiKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return token
	}
	return ""
}

func reject(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ScrapeResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    models.ErrCodeUnauthorized,
			Message: message,
		},
	})
}
