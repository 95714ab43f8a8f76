package middleware

import (
	"net/http"
	"strings"

	"github.com/satyamraj1643/pine/internal/application/services"
	"github.com/satyamraj1643/pine/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// AuthRequired resolves the session token from the auth cookie or the
// Authorization header and rejects the request when neither yields a user.
func AuthRequired(identity *services.IdentityService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c, cookieName)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing token"})
			return
		}

		u, err := identity.ResolveToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// GetCurrentUser returns the user resolved by AuthRequired.
func GetCurrentUser(c *gin.Context) (*user.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	u, ok := value.(*user.User)
	return u, ok
}

// TokenFromRequest tries the auth cookie first, then falls back to the Authorization header.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if cookieToken, err := c.Cookie(cookieName); err == nil && cookieToken != "" {
		return cookieToken
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
