package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps the request body at limit bytes. Nothing is rejected up
// front: reads past the cap fail with *http.MaxBytesError (see
// IsBodyTooLarge), so a request refused for other reasons keeps its status.
// A non-positive limit disables it.
func BodyLimit(limit int64) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// BodyTooLargeDetail is the body detail of a 413 response.
const BodyTooLargeDetail = "Request body too large"

// IsBodyTooLarge reports whether err came from reading past the BodyLimit cap.
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
