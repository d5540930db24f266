package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/server/handlers"
	"github.com/mamadbah2/agricure/internal/service/auth"
)

// Authenticator verifies bearer tokens.
type Authenticator interface {
	Authenticate(token string) (*auth.Claims, error)
}

func requireAuth(authn Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := authn.Authenticate(strings.TrimSpace(token))
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(handlers.UserIDKey, claims.Subject)
		c.Next()
	}
}
