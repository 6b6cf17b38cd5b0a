package handler

import (
	"fmt"
	"net/http"
	"time"

	"student_mgmt/internal/middleware"
	"student_mgmt/internal/model"
	"student_mgmt/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var exportContentTypes = map[service.ExportFormat]string{
	service.ExportCSV:  "text/csv",
	service.ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// EnrollmentHandler serves the staff enrollment ledger
type EnrollmentHandler struct {
	service service.EnrollmentService
	log     *zap.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(s service.EnrollmentService, log *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{service: s, log: log}
}

func enrollmentFilters(c *gin.Context) model.EnrollmentFilters {
	filters := model.EnrollmentFilters{
		Query:  c.Query("q"),
		Status: model.EnrollmentStatus(c.Query("status")),
	}
	filters.Page, filters.PageSize = pageParams(c)
	return filters
}

func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	page, err := h.service.ListEnrollments(c.Request.Context(), middleware.CallerFrom(c), enrollmentFilters(c))
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to retrieve enrollments")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	e, err := h.service.GetEnrollment(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to retrieve enrollment")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var req model.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.service.CreateEnrollment(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		respondError(c, h.log, err, req, "Failed to create enrollment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Enrollment created successfully", "enrollment": e})
}

func (h *EnrollmentHandler) UpdateEnrollment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.service.UpdateEnrollment(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		respondError(c, h.log, err, req, "Failed to update enrollment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrollment updated successfully", "enrollment": e})
}

func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteEnrollment(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		respondError(c, h.log, err, nil, "Failed to delete enrollment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enrollment deleted successfully"})
}

// ExportEnrollments streams the filtered ledger as a CSV or XLSX attachment
func (h *EnrollmentHandler) ExportEnrollments(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))

	buf, err := h.service.ExportEnrollments(c.Request.Context(), middleware.CallerFrom(c), enrollmentFilters(c), format)
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to export enrollments")
		return
	}

	fileName := fmt.Sprintf("enrollments_export_%s.%s", time.Now().Format("20060102_150405"), format)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, exportContentTypes[format], buf.Bytes())
}

// RegisterEnrollmentRoutes registers the staff enrollment routes
func (h *EnrollmentHandler) RegisterEnrollmentRoutes(rg *gin.RouterGroup, authMW, staffMW gin.HandlerFunc) {
	enrollments := rg.Group("/admin/enrollments")
	enrollments.Use(authMW, staffMW)
	{
		enrollments.GET("", h.ListEnrollments)
		enrollments.POST("", h.CreateEnrollment)
		enrollments.GET("/export", h.ExportEnrollments)
		enrollments.GET("/:id", h.GetEnrollment)
		enrollments.PUT("/:id", h.UpdateEnrollment)
		enrollments.DELETE("/:id", h.DeleteEnrollment)
	}
}
