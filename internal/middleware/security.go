package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityConfig holds configuration for the security middleware.
type SecurityConfig struct {
	// AllowedOrigins is the set of origins granted cross-origin access.
	// Empty means same-origin clients only; no CORS headers are emitted.
	AllowedOrigins []string
}

// Security returns middleware that answers CORS preflight requests and
// emits CORS headers for allowlisted origins.
func Security(config SecurityConfig) gin.HandlerFunc {
	// Build a set of allowed origins for O(1) lookup
	allowedSet := make(map[string]bool, len(config.AllowedOrigins))
	for _, origin := range config.AllowedOrigins {
		// Normalize: remove trailing slash, lowercase
		normalized := strings.TrimSuffix(strings.ToLower(origin), "/")
		if normalized != "" {
			allowedSet[normalized] = true
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowedSet[strings.TrimSuffix(strings.ToLower(origin), "/")] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}
