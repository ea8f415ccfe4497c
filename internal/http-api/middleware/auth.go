package middleware

import (
	"net/http"
	"strings"

	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by Authenticated for downstream handlers.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextClaims   = "claims"
)

// Authenticated is a Gin middleware for JWT authentication of API
// requests. Routes on the public allow-list simply do not use it.
func Authenticated(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header", "kind": "unauthenticated"})
			c.Abort()
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format", "kind": "unauthenticated"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "kind": "unauthenticated"})
			c.Abort()
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RequireRoles checks that the caller's role is one of the given roles.
// Runs after Authenticated.
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "role not found in token", "kind": "forbidden"})
			c.Abort()
			return
		}

		userRole, ok := roleValue.(string)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid role format", "kind": "forbidden"})
			c.Abort()
			return
		}

		for _, required := range requiredRoles {
			if userRole == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":    "insufficient permissions",
			"kind":     "forbidden",
			"required": requiredRoles,
			"current":  userRole,
		})
		c.Abort()
	}
}

// RequireOwnership admits the caller when the named path parameter
// equals their user id. Admin bypasses the check. Runs after
// Authenticated.
func RequireOwnership(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "user not found in token", "kind": "forbidden"})
			c.Abort()
			return
		}

		if c.GetString(ContextRole) == models.RoleAdmin {
			c.Next()
			return
		}

		if c.Param(param) != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "you can only access your own resources", "kind": "forbidden"})
			c.Abort()
			return
		}

		c.Next()
	}
}
