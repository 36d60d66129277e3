package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"maturity.app/assessor/common/id"
	"maturity.app/assessor/common/logger"
)

const RequestIDHeader = "X-Request-Id"

// Logger tags the request context with a request id and writes one access
// log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = id.String(id.New())
		}
		c.Header(RequestIDHeader, requestID)

		ctx := logger.With(c.Request.Context(), logger.Fields{
			RequestID: requestID,
			Component: "assessor.http",
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.ErrorContext(ctx, "http request", attrs...)
		case status >= 400:
			slog.WarnContext(ctx, "http request", attrs...)
		default:
			slog.InfoContext(ctx, "http request", attrs...)
		}
	}
}
