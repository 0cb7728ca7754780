package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"court-booking-api/internal/auth"
	"court-booking-api/internal/model"
)

const (
	UserIDKey   = "uid"
	UserNameKey = "userName"
	RoleKey     = "role"
)

// JWTAuth pulls the bearer token, validates it, and stashes the actor's
// identity on the request context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(h, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(UserNameKey, claims.Name)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}
