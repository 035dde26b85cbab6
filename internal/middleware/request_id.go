package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/projecthub/projecthub/internal/constants"
)

// RequestID ensures every request carries an X-Request-ID, generating one
// when the client did not send it, and echoes it back on the response
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
			c.Request.Header.Set(constants.HeaderXRequestID, requestID)
		}

		c.Header(constants.HeaderXRequestID, requestID)
		c.Next()
	}
}
