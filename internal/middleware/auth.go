package middleware

import (
	"strconv"
	"strings"

	"community_issues/internal/auth"
	"community_issues/internal/logger"
	"community_issues/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// OptionalAuth reads a bearer token when one is sent. The token only
// attributes the request to a user; a missing or invalid token never blocks it.
func OptionalAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "Ignoring invalid bearer token", "error", err.Error())
			c.Next()
			return
		}

		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.RoleKey, claims.Role)
		ctx := logger.WithUserID(c.Request.Context(), strconv.FormatUint(uint64(claims.UserID), 10))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetUserID returns the token's user, if any.
func GetUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok && id != 0
}
