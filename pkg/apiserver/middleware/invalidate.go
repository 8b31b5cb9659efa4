package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InvalidateOnWrite calls invalidate after every successful mutating request.
func InvalidateOnWrite(invalidate func(ctx context.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		invalidate(c.Request.Context())
	}
}
