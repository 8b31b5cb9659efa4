package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/apiserver/middleware"
	"github.com/countyai/cop-portal/pkg/auth"
)

type AuthHandler struct {
	verifier auth.Verifier
	sessions *auth.SessionManager
	logger   *zap.Logger
}

func NewAuthHandler(verifier auth.Verifier, sessions *auth.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{verifier: verifier, sessions: sessions, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.logger.Error("credential check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "identity provider unavailable"})
		return
	}

	session, err := h.sessions.Issue(identity)
	if err != nil {
		h.logger.Error("failed to issue session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session"})
		return
	}
	h.logger.Info("admin signed in", zap.String("user_id", identity.ID))
	c.JSON(http.StatusOK, session)
}

// Session echoes the identity behind the caller's token.
func (h *AuthHandler) Session(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      claims.Identity(),
		"expiresAt": claims.ExpiresAt.Time.UTC(),
	})
}
