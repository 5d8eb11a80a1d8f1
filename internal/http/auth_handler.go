package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionRevoker interface {
	Revoke(ctx context.Context, token string) error
}

// AuthHandler cierra sesiones emitidas por el proveedor externo.
type AuthHandler struct {
	logger     *zap.Logger
	revoker    SessionRevoker
	cookieName string
}

func NewAuthHandler(logger *zap.Logger, revoker SessionRevoker, cookieName string) *AuthHandler {
	return &AuthHandler{logger: logger, revoker: revoker, cookieName: cookieName}
}

// SignOut maneja POST /api/auth/signout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := sessionToken(c, h.cookieName)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if err := h.revoker.Revoke(c.Request.Context(), token); err != nil {
		h.logger.Error("revoke session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign out"})
		return
	}
	if h.cookieName != "" {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
