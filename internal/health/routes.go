package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler provides health check endpoints
type HealthHandler struct {
	checker *HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *HealthChecker) *HealthHandler {
	return &HealthHandler{
		checker: checker,
	}
}

// RegisterRoutes registers health check endpoints
func (h *HealthHandler) RegisterRoutes(engine *gin.Engine) {
	health := engine.Group("/health")
	{
		health.GET("", h.handleHealthStatus)
		health.GET("/liveness", h.handleLiveness)
		health.GET("/readiness", h.handleReadiness)
	}
}

// handleHealthStatus returns complete health status
func (h *HealthHandler) handleHealthStatus(c *gin.Context) {
	status := h.checker.Check(c.Request.Context())

	httpStatus := http.StatusOK
	if status.Status != StatusHealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, status)
}

// handleLiveness reports that the process is serving requests.
func (h *HealthHandler) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alive": true})
}

// handleReadiness reports whether the store is reachable.
func (h *HealthHandler) handleReadiness(c *gin.Context) {
	if h.checker.Ready(c.Request.Context()) {
		c.JSON(http.StatusOK, gin.H{"ready": true})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
}
