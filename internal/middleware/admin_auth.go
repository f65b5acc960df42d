package middleware

import (
	"net/http"
	"strings"

	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/internal/service"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminAuthMiddleware struct {
	auth *service.AdminAuthService
}

func NewAdminAuthMiddleware(auth *service.AdminAuthService) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{auth: auth}
}

// RequireAdmin admits requests carrying either a valid X-API-Key or a
// bearer JWT with the admin scope.
func (m *AdminAuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Static keys are checked first, they are what CI and scripts use
		if apiKey := c.GetHeader(constants.HeaderXAPIKey); apiKey != "" {
			if m.auth.VerifyAPIKey(apiKey) {
				logger.LogAuth(c.ClientIP(), "api_key", true)
				c.Next()
				return
			}
			logger.GetLogger().Warn("Invalid admin API key",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()))
			m.reject(c)
			return
		}

		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing admin credentials",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			m.reject(c)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			m.reject(c)
			return
		}

		claims, err := m.auth.ValidateToken(tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired admin token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			m.reject(c)
			return
		}

		if !m.auth.HasAdminScope(claims) {
			logger.GetLogger().Warn("Token lacks admin scope",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			m.reject(c)
			return
		}

		logger.LogAuth(c.ClientIP(), "jwt", true)
		c.Next()
	}
}

func (m *AdminAuthMiddleware) reject(c *gin.Context) {
	c.JSON(http.StatusUnauthorized,
		constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
	c.Abort()
}
