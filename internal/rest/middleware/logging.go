package middleware

import (
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/gin-gonic/gin"
)

// LoggingMiddleware returns a gin middleware that logs HTTP requests using our standard logger
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := []interface{}{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"query", raw,
			"latency_ms", latency.Milliseconds(),
		}

		if requestID := types.GetRequestID(c.Request.Context()); requestID != "" {
			fields = append(fields, "request_id", requestID)
		}

		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		statusCode := c.Writer.Status()
		switch {
		case statusCode >= 500:
			log.Errorw("HTTP_REQUEST_ERROR", fields...)
		case statusCode >= 400:
			log.Errorw("HTTP_REQUEST_WARNING", fields...)
		default:
			log.Infow("HTTP_REQUEST", fields...)
		}
	}
}
