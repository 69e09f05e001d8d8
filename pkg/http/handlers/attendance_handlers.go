package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jgirmay/attendance/pkg/http/middleware"
	"github.com/jgirmay/attendance/pkg/reports"
	"github.com/jgirmay/attendance/pkg/services"
)

// AttendanceHandlers handles /api/attendance requests
type AttendanceHandlers struct {
	service *services.AttendanceService
	csv     *reports.CSVWriter
	clock   Clock
}

// NewAttendanceHandlers creates new attendance handlers
func NewAttendanceHandlers(service *services.AttendanceService, clock Clock) *AttendanceHandlers {
	return &AttendanceHandlers{
		service: service,
		csv:     reports.NewCSVWriter(service.Policy()),
		clock:   clock,
	}
}

// CheckIn handles POST /api/attendance/checkin
func (h *AttendanceHandlers) CheckIn(c *gin.Context) {
	record, err := h.service.CheckIn(c.Request.Context(), middleware.UserID(c), h.clock.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// CheckOut handles POST /api/attendance/checkout
func (h *AttendanceHandlers) CheckOut(c *gin.Context) {
	record, err := h.service.CheckOut(c.Request.Context(), middleware.UserID(c), h.clock.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Today handles GET /api/attendance/today
// Responds with null when the caller has not checked in yet.
func (h *AttendanceHandlers) Today(c *gin.Context) {
	record, err := h.service.TodayStatus(c.Request.Context(), middleware.UserID(c), h.clock.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// MyHistory handles GET /api/attendance/my-history
func (h *AttendanceHandlers) MyHistory(c *gin.Context) {
	records, err := h.service.History(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// All handles GET /api/attendance/all?startDate=&endDate=
func (h *AttendanceHandlers) All(c *gin.Context) {
	records, err := h.service.ListAll(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Export handles GET /api/attendance/export?startDate=&endDate=
func (h *AttendanceHandlers) Export(c *gin.Context) {
	filter, err := h.service.Filter(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	records, err := h.service.ListAll(c.Request.Context(), filter.StartDay, filter.EndDay)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.csv.Write(&buf, records); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reports.Filename(filter)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
