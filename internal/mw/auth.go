package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-services-backend/internal/auth"
	"campus-services-backend/internal/model"
)

// userKey is the gin context key the authenticated user is stored under.
const userKey = "mw.currentUser"

// Authenticator resolves a bearer token to a user record.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (model.User, error)
}

// Auth is a middleware that requires a valid Bearer token and attaches
// the authenticated user to the request context.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		user, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireCapability aborts with 403 unless the authenticated user's role
// holds the capability. Must run after Auth.
func RequireCapability(cap auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !auth.Can(user.Role, cap) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by Auth.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}
