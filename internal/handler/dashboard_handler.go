package handler

import (
	"context"
	"net/http"
	"time"

	"student_mgmt/internal/middleware"
	"student_mgmt/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler serves the staff and student landing summaries
type DashboardHandler struct {
	service service.DashboardService
	log     *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(s service.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: s, log: log}
}

func (h *DashboardHandler) StaffDashboard(c *gin.Context) {
	d, err := h.service.StaffDashboard(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DashboardHandler) StudentDashboard(c *gin.Context) {
	d, err := h.service.StudentDashboard(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, h.log, err, nil, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

// RegisterDashboardRoutes registers both dashboards
func (h *DashboardHandler) RegisterDashboardRoutes(rg *gin.RouterGroup, authMW, staffMW, studentMW gin.HandlerFunc) {
	rg.GET("/admin/dashboard", authMW, staffMW, h.StaffDashboard)
	rg.GET("/student/dashboard", authMW, studentMW, h.StudentDashboard)
}

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the database answers within a short deadline
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 800*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	}
}
