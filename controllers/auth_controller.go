package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-admin/middlewares"
	"storefront-admin/session"
)

type SessionManager interface {
	middlewares.Authenticator
	Login(ctx context.Context, email, password string) (string, *session.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type AuthController struct {
	sessions SessionManager
	logger   *logrus.Logger
}

func NewAuthController(sessions SessionManager, logger *logrus.Logger) *AuthController {
	return &AuthController{sessions: sessions, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h *AuthController) Login(c *gin.Context) {
	defer middlewares.TrackOperation(c, "login")

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, s, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			h.logger.WithField("email", req.Email).Warn("Rejected admin login")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.logger.WithError(err).Error("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": s.ExpiresAt,
		"admin":     s.Admin,
	})
}

// POST /api/auth/logout
func (h *AuthController) Logout(c *gin.Context) {
	s, ok := middlewares.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), s.ID); err != nil {
		h.logger.WithError(err).Error("Failed to end session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GET /api/auth/me
func (h *AuthController) Me(c *gin.Context) {
	s, ok := middlewares.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, s.Admin)
}
