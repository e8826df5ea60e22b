package middleware

import (
	"context"
	"net/http"
	"strings"

	"PostBoard/internal/app_errors"
	"PostBoard/internal/models"
	"PostBoard/internal/service/auth"
	"PostBoard/pkg/logger"

	"github.com/gin-gonic/gin"
)

const CurrentUserCtx = "current_user"

type AuthService interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	VerifyAccessToken(ctx context.Context, token string) (*auth.TokenClaims, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
}

type AuthGate struct {
	log     logger.Log
	service AuthService
}

func NewAuthGate(log logger.Log, s AuthService) *AuthGate {
	return &AuthGate{
		log:     log,
		service: s,
	}
}

// RequireAuth guards protected handlers. The checks run in a fixed
// order and every rejection is terminal: bearer extraction, blacklist,
// signature+expiry, username claim, user lookup.
func (g *AuthGate) RequireAuth(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	var token string
	if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
		token = parts[1]
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	blacklisted, err := g.service.IsTokenBlacklisted(c.Request.Context(), token)
	if err != nil {
		g.log.ErrorErr("blacklist check failed", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if blacklisted {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenBlacklisted.Error()})
		return
	}

	claims, err := g.service.VerifyAccessToken(c.Request.Context(), token)
	if err != nil {
		g.log.Info("failed to verify token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	username := claims.Username
	if username == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	user, err := g.service.UserByName(c.Request.Context(), username)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	c.Set(CurrentUserCtx, user)
	c.Next()
}

// CurrentUser pulls the identity the gate injected.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	raw, exists := c.Get(CurrentUserCtx)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*models.User)
	return user, ok
}
