package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profile-hub/internal/domain"
	"profile-hub/internal/service"
)

const principalKey = "principal"

// SessionResolver resuelve el token de sesion del proveedor externo a un principal.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}

// sessionToken toma el token del header Authorization o, si no hay, de la cookie de sesion.
func sessionToken(c *gin.Context, cookieName string) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if cookieName == "" {
		return ""
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// SessionGateMiddleware resuelve la sesion de cada request y redirige al sign-in las
// rutas protegidas sin sesion. El principal resuelto queda en el contexto.
func SessionGateMiddleware(logger *zap.Logger, gate *service.SessionGate, resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var principal domain.Principal
		if token := sessionToken(c, cookieName); token != "" {
			p, err := resolver.Resolve(c.Request.Context(), token)
			if err != nil {
				logger.Debug("session rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
			} else {
				principal = p
			}
		}
		if !principal.IsZero() {
			c.Set(principalKey, principal)
		}

		decision := gate.Evaluate(c.Request.URL.Path, !principal.IsZero())
		if !decision.Allow {
			c.Redirect(http.StatusTemporaryRedirect, decision.RedirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSession responde 401 en JSON cuando no hay principal resuelto.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal obtiene el principal de la sesion desde el contexto.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok && !principal.IsZero()
}
