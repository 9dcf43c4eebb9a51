package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// exposedHeaders Content-Disposition names the attendance CSV and
// timetable.ics downloads for the dashboard.
const exposedHeaders = "Content-Disposition, X-Request-ID"

// CORS allows the configured dashboard origins with credentials. Only
// preflights from an allowed origin are answered; others fall through to
// the router and get its 404/405.
func CORS(allowOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		c.Header("Vary", "Origin")

		if !allowed[origin] {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Expose-Headers", exposedHeaders)

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Max-Age", "600")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
