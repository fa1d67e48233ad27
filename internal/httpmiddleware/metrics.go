package httpmiddleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portal/internal/metrics"
)

// Metrics records request counts and latency per matched route. Unmatched
// requests share the "unmatched" route label to keep cardinality bounded.
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
		metrics.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
