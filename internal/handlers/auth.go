// internal/handlers/auth.go
package handlers

import (
	"context"
	"net/http"

	"apptrack-backend/internal/common/auth"
	"apptrack-backend/internal/common/errors"
	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Authenticator is the identity-provider surface the auth handler needs.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*auth.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error)
}

// AuthHandler exposes registration and login, delegating credential
// handling entirely to the identity provider.
type AuthHandler struct {
	provider Authenticator
	log      logger.Logger
}

func NewAuthHandler(provider Authenticator, log logger.Logger) *AuthHandler {
	return &AuthHandler{provider: provider, log: log}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": err.Error()},
		})
		return
	}

	user, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Warn("signup failed", map[string]interface{}{
			"email": req.Email,
			"error": err.Error(),
		})
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	h.log.Info("user registered", map[string]interface{}{"userId": user.ID})
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "VALIDATION_FAILED", "message": err.Error()},
		})
		return
	}

	session, err := h.provider.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, body := errors.ToHTTP(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken:  session.AccessToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		RefreshToken: session.RefreshToken,
	})
}
