package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/metrics"
)

// Metrics counts requests and observes their latency by matched route.
// Unmatched paths share the "unmatched" label.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
