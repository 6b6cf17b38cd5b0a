package middleware

import (
	"errors"
	"net/http"

	"student_mgmt/internal/model"
	"student_mgmt/internal/service"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware that admits only callers with the given role
func RoleMiddleware(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := service.Authorize(CallerFrom(c), role)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, service.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		}
	}
}

// StaffMiddleware checks if the caller is staff
func StaffMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleStaff)
}

// StudentMiddleware checks if the caller is a student
func StudentMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleStudent)
}
