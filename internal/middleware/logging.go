package middleware

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/pkg/logger"
	"go.uber.org/zap"
)

// LoggingMiddleware routes gin's request log through zap
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			fields := []zap.Field{
				zap.String("method", param.Method),
				zap.String("path", param.Path),
				zap.Int("status_code", param.StatusCode),
				zap.Duration("latency", param.Latency),
				zap.String("client_ip", param.ClientIP),
				zap.String("user_agent", param.Request.UserAgent()),
			}

			switch {
			case param.StatusCode >= 500:
				logger.GetLogger().Error("Request failed", fields...)
			case param.StatusCode >= 400:
				logger.GetLogger().Warn("Request rejected", fields...)
			default:
				logger.GetLogger().Info("Request completed", fields...)
			}

			if param.Latency > 2*time.Second {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency))
			}

			return "" // zap handles the output
		},
		Output: io.Discard,
	})
}

// SecurityLoggingMiddleware records login attempts and scanner-looking
// clients for audit trails
func SecurityLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		userAgent := c.Request.UserAgent()

		if isSuspiciousUserAgent(userAgent) {
			logger.GetLogger().Warn("Suspicious user agent detected",
				zap.String("client_ip", clientIP),
				zap.String("user_agent", userAgent),
				zap.String("path", c.Request.URL.Path))
		}

		if c.Request.Method == http.MethodPost &&
			(c.Request.URL.Path == "/api/v1/auth/login" || c.Request.URL.Path == "/api/v1/auth/register") {
			logger.GetLogger().Info("Authentication attempt",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", clientIP),
				zap.String("user_agent", userAgent))
		}

		c.Next()
	}
}

func isSuspiciousUserAgent(userAgent string) bool {
	suspiciousPatterns := []string{
		"sqlmap", "nikto", "nmap", "masscan", "zap", "burp",
		"scanner", "crawler", "spider",
	}

	lowered := strings.ToLower(userAgent)
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}

	return false
}

// RecoveryMiddleware converts panics into a 500 response and logs them
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.GetLogger().Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()))

		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, nil))
	})
}
