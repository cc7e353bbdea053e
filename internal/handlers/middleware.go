// internal/handlers/middleware.go
package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"apptrack-backend/internal/common/auth"
	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/common/metrics"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
)

// TokenValidator resolves a bearer token to the account it belongs to.
type TokenValidator interface {
	GetUser(ctx context.Context, accessToken string) (*auth.User, error)
}

// AuthRequired validates the Authorization bearer token against the
// identity provider and stores the user identity on the request context.
func AuthRequired(validator TokenValidator, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "MISSING_TOKEN", "message": "Authorization header required"},
			})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		user, err := validator.GetUser(c.Request.Context(), token)
		if err != nil {
			log.Debug("token validation failed", map[string]interface{}{
				"path":  c.FullPath(),
				"error": err.Error(),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "INVALID_TOKEN", "message": "Invalid or expired token"},
			})
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxUserEmail, user.Email)
		c.Next()
	}
}

// AdminSecretRequired guards internal task endpoints with a shared secret.
func AdminSecretRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Admin-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "FORBIDDEN", "message": "Invalid admin secret"},
			})
			return
		}
		c.Next()
	}
}

// Metrics records request counts and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, http.StatusText(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
