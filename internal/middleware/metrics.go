package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/metrics"
)

func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, c.Writer.Status(), time.Since(start))
	}
}
