package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/countyai/cop-portal/pkg/auth"
)

const (
	claimsKey = "session_claims"
	// DefaultActor attributes writes made by a session without an email.
	DefaultActor = "admin"
)

// SessionValidator is the part of auth.SessionManager the middleware needs.
type SessionValidator interface {
	Validate(token string) (*auth.SessionClaims, error)
}

// Auth rejects requests without a valid session token.
func Auth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		token, ok := auth.BearerToken(authorization)
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		claims, err := sessions.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Claims returns the session of an authenticated request.
func Claims(c *gin.Context) (*auth.SessionClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.SessionClaims)
	return claims, ok
}

// Actor names who is making an authenticated request.
func Actor(c *gin.Context) string {
	if claims, ok := Claims(c); ok && claims.Email != "" {
		return claims.Email
	}
	return DefaultActor
}
