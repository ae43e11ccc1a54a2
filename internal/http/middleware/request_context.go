package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionIDKey is set by handlers once a wizard session is known so the
// request log can carry it (hashed by the logger).
const SessionIDKey = "session_id"

// AttachRequestContext bounds every request with timeout. Zero disables it.
func AttachRequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
