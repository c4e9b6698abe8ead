package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/sahilmate/multi-agent-form-processing-system/pkg/logger"
)

// Recovery turns a handler panic into the gateway's generic 500 body. If the
// handler already started writing, the response is left as is and only
// aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.Error(c.Request.Context(), "panic recovered",
				"panic", rec,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"detail":     "Internal server error",
				"error":      "unexpected failure while handling the request",
				"request_id": GetRequestID(c),
			})
		}()

		c.Next()
	}
}
