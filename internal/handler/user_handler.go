package handler

import (
	"net/http"

	"student_mgmt/internal/middleware"
	"student_mgmt/internal/model"
	"student_mgmt/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the staff user directory
type UserHandler struct {
	service service.UserService
	log     *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{service: s, log: log}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	filters := model.UserFilters{
		Role:  model.Role(c.Query("role")),
		Query: c.Query("q"),
	}
	filters.Page, filters.PageSize = pageParams(c)

	page, err := h.service.ListUsers(c.Request.Context(), middleware.CallerFrom(c), filters)
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		req.Password = ""
		respondError(c, h.log, err, req, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		req.Password = ""
		respondError(c, h.log, err, req, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, h.log, err, nil, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// RegisterUserRoutes registers the staff user routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, staffMW gin.HandlerFunc) {
	users := rg.Group("/admin/users")
	users.Use(authMW, staffMW)
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}
