package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jgirmay/attendance/pkg/http/middleware"
	"github.com/jgirmay/attendance/pkg/logging"
	"github.com/jgirmay/attendance/pkg/realtime"
	"github.com/jgirmay/attendance/pkg/services"
)

// DashboardHandlers handles /api/dashboard requests
type DashboardHandlers struct {
	service *services.DashboardService
	hub     *realtime.Hub
	clock   Clock
	logger  *logging.Logger
}

// NewDashboardHandlers creates new dashboard handlers. hub may be nil, in
// which case the live feed is not served.
func NewDashboardHandlers(service *services.DashboardService, hub *realtime.Hub, clock Clock, logger *logging.Logger) *DashboardHandlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DashboardHandlers{service: service, hub: hub, clock: clock, logger: logger}
}

// Employee handles GET /api/dashboard/employee
func (h *DashboardHandlers) Employee(c *gin.Context) {
	stats, err := h.service.EmployeeMonthlyStats(c.Request.Context(), middleware.UserID(c), h.clock.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Manager handles GET /api/dashboard/manager
func (h *DashboardHandlers) Manager(c *gin.Context) {
	stats, err := h.service.ManagerStats(c.Request.Context(), h.clock.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Live handles GET /api/dashboard/live
func (h *DashboardHandlers) Live(c *gin.Context) {
	if h.hub == nil {
		c.Status(http.StatusNotFound)
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request); err != nil {
		// The upgrader has already written the failure response.
		h.logger.Warn("live feed upgrade failed", zap.String("user_id", middleware.UserID(c)), zap.Error(err))
	}
}
