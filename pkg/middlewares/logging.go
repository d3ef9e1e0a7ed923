package middlewares

import (
	"time"

	"taskapp/pkg"
	. "taskapp/pkg/config"
	appctx "taskapp/pkg/context"
	. "taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware keeps an inbound X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)

		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		current := appctx.NewCurrent()
		current.Set(appctx.RequestIDKey, requestID)
		current.Set(appctx.ClientIPKey, pkg.GetClientIP(c))

		c.Request = c.Request.WithContext(appctx.WithCurrent(c.Request.Context(), current))

		c.Set(appctx.RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

func LoggingMiddleware(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetString(appctx.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", pkg.GetClientIP(c)),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		if traceID := GetTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= 500 {
			logger.ErrorWithTrace(c.Request.Context(), "HTTP Request", fields...)
			return
		}

		logger.InfoWithTrace(c.Request.Context(), "HTTP Request", fields...)
	}
}
