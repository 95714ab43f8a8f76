package middleware

import (
	"github.com/satyamraj1643/pine/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
)

const requestIDKey = "requestId"

// RequestIDMiddleware tags every request with a ULID for log correlation.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = security.GenerateULID()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestIDMiddleware.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(requestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
