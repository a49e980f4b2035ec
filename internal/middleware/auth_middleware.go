package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"guidely/internal/config"
	"guidely/internal/models"
	"guidely/internal/utils"
)

// extractToken prefers the Authorization header; browser clients that
// authenticated via the cookie flow are accepted as a fallback.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}
		return ""
	}

	cookie, err := c.Cookie(utils.AuthCookieName)
	if err != nil {
		return ""
	}
	return cookie
}

// AuthRequired validates the JWT and stores the caller's identity on the
// request context.
func AuthRequired(cfg *config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := claims.UserObjectID()
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_role", claims.Role)
		c.Set("user_email", claims.Email)
		c.Set("user_name", claims.Name)

		c.Next()
	}
}

// AuthOptional sets the identity when a valid token is present but never
// rejects the request. Public listing endpoints use it to widen results
// for admins.
func AuthOptional(cfg *config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			c.Next()
			return
		}

		if userID, err := claims.UserObjectID(); err == nil {
			c.Set("user_id", userID)
			c.Set("user_role", claims.Role)
			c.Set("user_email", claims.Email)
			c.Set("user_name", claims.Name)
		}

		c.Next()
	}
}

// RequireRole admits callers whose role ranks at or above the minimum.
// Unknown roles rank below every known one and are always rejected.
func RequireRole(minimum models.AccountRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		rank := models.RoleRank(models.AccountRole(roleStr))
		if rank == 0 || rank < models.RoleRank(minimum) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
