package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jgirmay/attendance/pkg/http/middleware"
	"github.com/jgirmay/attendance/pkg/models"
	"github.com/jgirmay/attendance/pkg/services"
)

// AuthHandlers handles /api/auth requests
type AuthHandlers struct {
	service *services.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(service *services.AuthService) *AuthHandlers {
	return &AuthHandlers{service: service}
}

// Register handles POST /api/auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
