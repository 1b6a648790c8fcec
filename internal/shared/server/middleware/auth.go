package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/shared/auth"
	"onboard-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"

	devUserID    = "local-dev"
	devUserEmail = "local-dev@localhost"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth validates bearer JWTs and stores identity in context. Paths listed in
// public skip enforcement entirely; the billing webhook authenticates via its
// own signature check. With disabled set (AUTH_DISABLE in dev/local runs),
// every request runs as a fixed local identity.
func Auth(verifier TokenVerifier, public map[string]bool, disabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if disabled {
			c.Set(userIDKey, devUserID)
			c.Set(userEmailKey, devUserEmail)
			c.Next()
			return
		}
		if public != nil && public[c.FullPath()] {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		if verifier == nil {
			respond.Error(c, http.StatusInternalServerError, "internal", "auth verifier not configured", nil)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, claims.Subject)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		c.Next()
	}
}

// AuthOptional stores identity in context when a valid bearer token is
// present and proceeds anonymously otherwise. Page routes use it so the
// onboarding gate can decide where to send unauthenticated visitors.
func AuthOptional(verifier TokenVerifier, disabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if disabled {
			c.Set(userIDKey, devUserID)
			c.Set(userEmailKey, devUserEmail)
			c.Next()
			return
		}
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if verifier == nil || token == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			c.Next()
			return
		}
		c.Set(userIDKey, claims.Subject)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
