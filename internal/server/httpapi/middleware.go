package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const deviceIDKey = "device_id"

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			s.logger.Error(c.Request.Context(), "request failed", append(args, "error", c.Errors.String())...)
			return
		}
		s.logger.Debug(c.Request.Context(), "request", args...)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic in handler", "panic", rec, "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": common.ErrorInternal.Error()})
	})
}

// deviceAuth requires an Authorization header on sync requests and, when a
// secret is configured, a valid device token inside it.
func (s *Server) deviceAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(common.AuthorizationHeaderName))
		if header == "" {
			writeError(c, common.ErrorUnauthorized)
			c.Abort()
			return
		}

		if len(s.secret) == 0 {
			c.Next()
			return
		}

		deviceID, err := auth.DeviceIDFromToken(auth.StripBearer(header), s.secret)
		if err != nil {
			s.logger.Warn(c.Request.Context(), "device token rejected", "error", err)
			writeError(c, err)
			c.Abort()
			return
		}

		c.Set(deviceIDKey, deviceID)
		c.Next()
	}
}
