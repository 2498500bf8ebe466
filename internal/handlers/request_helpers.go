package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

const defaultRequestTimeout = 5 * time.Second

var errInvalidID = errors.New("invalid id")

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// requestContext bounds downstream calls by REQUEST_TIMEOUT.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := config.AppEnv.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func currentSession(c *gin.Context) session.Context {
	return middleware.CurrentSession(c)
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
