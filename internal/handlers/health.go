package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

func Health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /health"
		defer handlePanic(c, route)

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		status := http.StatusOK
		results := make(gin.H, len(checks))
		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := checks[name](ctx)
			cancel()

			if err != nil {
				log.Printf("[%s] %s unhealthy: %v", route, name, err)
				results[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "up"
		}

		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
	}
}
