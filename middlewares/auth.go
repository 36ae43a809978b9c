package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-admin/session"
	"storefront-admin/utils"
)

const (
	ContextSession    = "session"
	ContextAdminEmail = "adminEmail"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Session, error)
}

// AuthMiddleware restores the admin session from the bearer token.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		s, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, utils.ErrInvalidToken) || errors.Is(err, session.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			return
		}

		c.Set(ContextSession, s)
		c.Set(ContextAdminEmail, s.Admin.Email)
		c.Next()
	}
}

// CurrentSession returns the session set by AuthMiddleware.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
