package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas de la API.
// sessionMW corre en todas las rutas; metrics puede ser nil.
func NewRouter(
	logger *zap.Logger,
	sessionMW gin.HandlerFunc,
	profileH *ProfileHandler,
	voiceH *VoiceHandler,
	authH *AuthHandler,
	metrics http.Handler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), sessionMW)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group("/api", jsonContentTypeMiddleware(), RequireSession())
	api.GET("/profile", profileH.GetProfile)
	api.POST("/profile", profileH.UpdateProfile)
	api.POST("/profile/upload-cv", profileH.UploadCV)
	api.POST("/profile/verify-linkedin", profileH.VerifyLinkedIn)

	api.POST("/voice/save-session", voiceH.SaveSession)
	api.GET("/voice/sessions", voiceH.ListSessions)

	api.POST("/auth/signout", authH.SignOut)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
