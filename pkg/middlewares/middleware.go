package middlewares

import (
	"time"

	. "taskapp/pkg/config"
	. "taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func MetricsMiddleware(metrics *AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		path := c.FullPath()

		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

func SetupGinMiddlewareWithConfig(router *gin.Engine, serviceName string, metrics *AppMetrics, logger *Logger, config *AppConfig) {
	router.Use(otelgin.Middleware(serviceName))

	router.Use(RequestIDMiddleware())

	router.Use(LoggingMiddleware(logger))

	if config.RateLimitEnabled {
		rateLimiter := NewRateLimiter(logger.Zap(), metrics, config.RoutePrefix, config.RateLimitConfigs)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}
}
