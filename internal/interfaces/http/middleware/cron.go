package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CronSecret guards the scheduler endpoints with a shared bearer secret.
// An empty secret disables the endpoints entirely.
func CronSecret(secret string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	expected := []byte(secret)

	return func(c *gin.Context) {
		if len(expected) == 0 {
			log.Warn("cron endpoint called but cron.secret is not configured", zap.String("path", c.Request.URL.Path))
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Unauthorized")
			return
		}
		token, ok := bearerToken(c)
		if !ok || subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			log.Warn("cron endpoint rejected", zap.String("path", c.Request.URL.Path), zap.String("client_ip", c.ClientIP()))
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}
