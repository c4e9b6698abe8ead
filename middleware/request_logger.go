package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahilmate/multi-agent-form-processing-system/pkg/logger"
)

const (
	upstreamPathKey   = "upstream_path"
	upstreamStatusKey = "upstream_status"
)

// SetUpstream records which backend path answered the request and with what
// status, for the access log line.
func SetUpstream(c *gin.Context, path string, status int) {
	c.Set(upstreamPathKey, path)
	c.Set(upstreamStatusKey, status)
}

// RequestLogger writes one access line per request. Requests answered
// locally (missing auth, bad input) carry no upstream attributes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		if route := c.FullPath(); route != "" {
			attrs = append(attrs, "route", route)
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}
		if path := c.GetString(upstreamPathKey); path != "" {
			attrs = append(attrs, "upstream_path", path, "upstream_status", c.GetInt(upstreamStatusKey))
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.Error(ctx, "request completed", attrs...)
		case status >= 400:
			logger.Warn(ctx, "request completed", attrs...)
		default:
			logger.Info(ctx, "request completed", attrs...)
		}
	}
}
