package handler

import (
	"errors"
	"net/http"
	"strconv"

	"student_mgmt/internal/metrics"
	"student_mgmt/internal/middleware"
	"student_mgmt/internal/observability"
	"student_mgmt/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates a service error into an HTTP response. input is echoed back on
// validation failures so clients can redisplay the form. Unexpected errors are logged, counted
// and reported, and answered with fallback as the message.
func respondError(c *gin.Context, log *zap.Logger, err error, input any, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields, "input": input})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error(fallback,
			zap.Error(err),
			zap.String("route", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)))
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// paramID parses a positive integer path parameter, answering 400 when it is malformed
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// pageParams reads ?page= and ?page_size=. Garbage falls back to the defaults, as a pager would.
func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	pageSize, _ = strconv.Atoi(c.Query("page_size"))
	return page, pageSize
}
