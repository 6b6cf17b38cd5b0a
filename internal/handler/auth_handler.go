package handler

import (
	"net/http"
	"time"

	"student_mgmt/internal/middleware"
	"student_mgmt/internal/model"
	"student_mgmt/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service      service.AuthService
	sessionTTL   time.Duration
	secureCookie bool
	log          *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, sessionTTL time.Duration, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, sessionTTL: sessionTTL, secureCookie: secureCookie, log: log}
}

func (h *AuthHandler) setSession(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(ttl.Seconds()), "/", "", h.secureCookie, true)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		req.Password = ""
		respondError(c, h.log, err, req, "Failed to register user")
		return
	}

	h.setSession(c, token, h.sessionTTL)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Welcome!",
		"user":    user,
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to login")
		return
	}

	h.setSession(c, token, h.sessionTTL)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// Logout drops the session cookie. Bearer tokens simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSession(c, "", -time.Second)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
	}
}
