package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"school-attendance/pkg/metrics"
)

// Metrics request counter and latency histogram by route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
