package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/locus/observability"
)

// Metrics records request count, duration and in-flight requests. Routes
// are reported by their pattern; unmatched requests use "unmatched".
func Metrics(m *observability.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
