package middleware

import (
	"net/http"
	"strings"

	userRepo "dencare/database/repository/user"
	"dencare/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// Protect validates the bearer token (or the "token" cookie) and puts
// the authenticated user id and role on the context. The user must
// still exist; the role comes from the account document, not the
// token, so demotions take effect immediately.
func Protect(repo userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized to access this route"})
			return
		}

		id, _, err := utils.ExtractIdentityFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		u, err := repo.GetByID(id)
		if err != nil || u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized to access this route"})
			return
		}

		c.Set(ContextUserID, u.ID)
		c.Set(ContextUserRole, u.Role)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" && cookie != "none" {
		return cookie
	}
	return ""
}
