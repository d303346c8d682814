// Package middleware holds the gin middleware shared by all HTTP routes.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
)

// RequestObserver receives one observation per served request.  The
// prometheus metrics type satisfies this.
type RequestObserver interface {
	ObserveHTTPRequest(method, path, status string, duration time.Duration)
}

// RequestLogging logs every request and, when observer is non-nil, reports
// it to the metrics sink.  The route template is used as the path label so
// parameterized routes do not explode label cardinality.
func RequestLogging(log logging.Logger, observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()

		log.Info("http request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("elapsed", elapsed),
			logging.String("client", c.ClientIP()),
		)
		if observer != nil {
			observer.ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(status), elapsed)
		}
	}
}

// Recovery converts panics in handlers into 500 responses instead of
// dropping the connection.
func Recovery(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("recovered panic in handler",
					logging.String("path", c.Request.URL.Path),
					logging.Any("panic", r),
				)
				c.AbortWithStatusJSON(500, gin.H{
					"error": gin.H{
						"code":    "COMMON_001",
						"message": "internal server error",
					},
				})
			}
		}()
		c.Next()
	}
}
