package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profile-hub/internal/domain"
)

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotAuthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError traduce un error del core a status + {"error": ...}. Los 5xx se registran
// y salen con un mensaje generico.
func writeError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusFor(domain.KindOf(err))
	if status >= http.StatusInternalServerError {
		principal, _ := GetPrincipal(c)
		logger.Error(msg,
			zap.Error(err),
			zap.String("principal_id", principal.ID),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": domain.PublicMessage(err)})
}
