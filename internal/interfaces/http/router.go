// Package http assembles the gin engine and the HTTP server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/compound-analyzer/internal/application/analysis"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/compound-analyzer/internal/interfaces/http/handlers"
	"github.com/turtacn/compound-analyzer/internal/interfaces/http/middleware"
)

// RouterConfig collects everything the router wires together.  Metrics is
// optional; Checkers feed the readiness probe.
type RouterConfig struct {
	Service  *analysis.Service
	Logger   logging.Logger
	Metrics  *prometheus.Metrics
	Version  string
	Mode     string
	Checkers []handlers.HealthChecker
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	var observer middleware.RequestObserver
	if cfg.Metrics != nil {
		observer = cfg.Metrics
	}
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestLogging(cfg.Logger.Named("http"), observer),
	)

	handlers.NewHealthHandler(cfg.Version, cfg.Checkers...).RegisterRoutes(engine)
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := engine.Group("/api/v1")
	handlers.NewAnalysisHandler(cfg.Service, cfg.Logger).RegisterRoutes(v1)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"code": "COMMON_003", "message": "route not found"},
		})
	})
	return engine
}
