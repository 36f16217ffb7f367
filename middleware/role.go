package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Authorize restricts a route to the given roles. Must run after
// Protect.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "User role " + role + " is not authorized to access this route",
		})
	}
}
