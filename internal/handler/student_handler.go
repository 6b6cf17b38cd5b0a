package handler

import (
	"net/http"

	"student_mgmt/internal/middleware"
	"student_mgmt/internal/model"
	"student_mgmt/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StudentHandler serves the student self-service routes
type StudentHandler struct {
	users       service.UserService
	courses     service.CourseService
	enrollments service.EnrollmentService
	log         *zap.Logger
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(users service.UserService, courses service.CourseService, enrollments service.EnrollmentService, log *zap.Logger) *StudentHandler {
	return &StudentHandler{users: users, courses: courses, enrollments: enrollments, log: log}
}

func (h *StudentHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	var req model.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, h.log, err, req, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your profile has been updated successfully.", "user": user})
}

func (h *StudentHandler) BrowseCourses(c *gin.Context) {
	courses, err := h.courses.BrowseCourses(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to retrieve courses")
		return
	}
	c.JSON(http.StatusOK, courses)
}

// RequestEnrollment answers 201 for a new enrollment and 200 when the student was already enrolled
func (h *StudentHandler) RequestEnrollment(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	e, created, err := h.enrollments.RequestEnrollment(c.Request.Context(), middleware.CallerFrom(c), courseID)
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to request enrollment")
		return
	}
	if created {
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Your enrollment request has been submitted.",
			"created":    true,
			"enrollment": e,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "You are already enrolled in this course.",
		"created":    false,
		"enrollment": e,
	})
}

func (h *StudentHandler) WatchCourse(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := h.enrollments.WatchCourse(c.Request.Context(), middleware.CallerFrom(c), courseID)
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to open course")
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetEnrollmentStatus lets a student complete or drop a course. Other targets leave it unchanged.
func (h *StudentHandler) SetEnrollmentStatus(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.EnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.enrollments.SetOwnEnrollmentStatus(c.Request.Context(), middleware.CallerFrom(c), courseID, req.Status)
	if err != nil {
		respondError(c, h.log, err, req, "Failed to update enrollment status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollment": e})
}

// RegisterStudentRoutes registers the student self-service routes
func (h *StudentHandler) RegisterStudentRoutes(rg *gin.RouterGroup, authMW, studentMW gin.HandlerFunc) {
	student := rg.Group("/student")
	student.Use(authMW, studentMW)
	{
		student.GET("/profile", h.GetProfile)
		student.PUT("/profile", h.UpdateProfile)
		student.GET("/courses", h.BrowseCourses)
		student.POST("/courses/:id/enroll", h.RequestEnrollment)
		student.GET("/courses/:id/watch", h.WatchCourse)
		student.POST("/courses/:id/status", h.SetEnrollmentStatus)
	}
}
