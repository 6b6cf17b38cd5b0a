package middleware

import (
	"net/http"
	"strings"

	"student_mgmt/internal/model"
	"student_mgmt/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthCallerKey = "authCaller"
	// TokenCookie carries the session token for browser clients.
	TokenCookie = "token"
)

// tokenFromRequest reads a bearer token from the Authorization header, falling back to the
// session cookie.
func tokenFromRequest(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", false
		}
		return parts[1], true
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

// JWTAuthMiddleware resolves the caller from the session token and stores it in the context
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := tokenFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		role := model.Role(claims.Role)
		if !role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AuthCallerKey, model.NewCaller(claims.UserID, role))
		c.Next()
	}
}

// CallerFrom returns the caller stored by JWTAuthMiddleware, or nil on public routes
func CallerFrom(c *gin.Context) *model.Caller {
	v, exists := c.Get(AuthCallerKey)
	if !exists {
		return nil
	}
	caller, _ := v.(*model.Caller)
	return caller
}
