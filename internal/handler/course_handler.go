package handler

import (
	"net/http"

	"student_mgmt/internal/middleware"
	"student_mgmt/internal/model"
	"student_mgmt/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CourseHandler serves the staff course catalog
type CourseHandler struct {
	service service.CourseService
	log     *zap.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(s service.CourseService, log *zap.Logger) *CourseHandler {
	return &CourseHandler{service: s, log: log}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	filters := model.CourseFilters{Query: c.Query("q")}
	filters.Page, filters.PageSize = pageParams(c)

	page, err := h.service.ListCourses(c.Request.Context(), middleware.CallerFrom(c), filters)
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to retrieve courses")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	course, err := h.service.GetCourse(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to retrieve course")
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, h.log, err, req, "Failed to create course")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Course created successfully", "course": course})
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		respondError(c, h.log, err, req, "Failed to update course")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course updated successfully", "course": course})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCourse(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, h.log, err, nil, "Failed to delete course")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

// RegisterCourseRoutes registers the staff course routes
func (h *CourseHandler) RegisterCourseRoutes(rg *gin.RouterGroup, authMW, staffMW gin.HandlerFunc) {
	courses := rg.Group("/admin/courses")
	courses.Use(authMW, staffMW)
	{
		courses.GET("", h.ListCourses)
		courses.POST("", h.CreateCourse)
		courses.GET("/:id", h.GetCourse)
		courses.PUT("/:id", h.UpdateCourse)
		courses.DELETE("/:id", h.DeleteCourse)
	}
}
