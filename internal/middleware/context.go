package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	ctxutil "github.com/projecthub/projecthub/pkg/context"
)

// ContextMiddleware attaches request metadata (request id, client ip, user
// agent, start time) to the request context so downstream log lines carry
// it, and bounds each request with a timeout
func ContextMiddleware(module string, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, module, c.FullPath())

		ctx, cancel := ctxutil.WithTimeout(ctx, timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
