package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/common/utils"
)

// RequestLogger logs one line per request. Health probes are skipped and
// failed requests are logged at warn level with the handler's error.
func RequestLogger() gin.HandlerFunc {
	logger := utils.Named("http")

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if playerID := c.GetString(PlayerIDKey); playerID != "" {
			fields = append(fields, zap.String("player_id", playerID))
		}

		if len(c.Errors) > 0 || c.Writer.Status() >= 500 {
			if len(c.Errors) > 0 {
				fields = append(fields, zap.String("error", c.Errors.Last().Error()))
			}
			logger.Warn("Request failed", fields...)
			return
		}
		logger.Info("Request", fields...)
	}
}
