package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/domain/models"
	"github.com/mamadbah2/agricure/internal/i18n"
	"github.com/mamadbah2/agricure/internal/service/auth"
	"github.com/mamadbah2/agricure/internal/service/farms"
	"github.com/mamadbah2/agricure/internal/service/recommendations"
)

// UserIDKey is the gin context key holding the authenticated user ID.
const UserIDKey = "userID"

var errBadQuery = errors.New("invalid query parameter")

func userID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, farms.ErrInvalidFarm),
		errors.Is(err, recommendations.ErrInvalidRecommendation),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, i18n.ErrUnsupportedLanguage),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound), errors.Is(err, recommendations.ErrNoEnhancement):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, recommendations.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, recommendations.ErrEnhancementUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// intQuery reads a non-negative integer query parameter, returning fallback
// when it is absent and capping it at max.
func intQuery(c *gin.Context, key string, fallback, max int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadQuery, key)
	}
	if max > 0 && n > max {
		n = max
	}
	return n, nil
}
