package middleware

import (
	"net/http"
	"slices"
	"strings"

	"seatsync-backend/models"
	"seatsync-backend/utils"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RequireRoles lets the request through only when the authenticated user
// holds one of roles. It must run after AuthMiddleware.
func RequireRoles(message string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("user_role")
		roleStr, _ := role.(string)
		if !slices.Contains(roles, roleStr) {
			c.JSON(http.StatusForbidden, gin.H{"error": message})
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return RequireRoles("Exam admin access required", models.RoleExamAdmin)
}

// StaffMiddleware admits exam admins and invigilators.
func StaffMiddleware() gin.HandlerFunc {
	return RequireRoles("Staff access required", models.RoleExamAdmin, models.RoleInvigilator)
}

// CurrentUserID returns the id AuthMiddleware stored on the context.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
