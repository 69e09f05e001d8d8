package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jgirmay/attendance/internal/health"
	"github.com/jgirmay/attendance/pkg/http/handlers"
	"github.com/jgirmay/attendance/pkg/http/middleware"
	"github.com/jgirmay/attendance/pkg/logging"
	"github.com/jgirmay/attendance/pkg/metrics"
	"github.com/jgirmay/attendance/pkg/models"
	"github.com/jgirmay/attendance/pkg/realtime"
	"github.com/jgirmay/attendance/pkg/services"
	"github.com/jgirmay/attendance/pkg/validation"
)

// Dependencies is everything the router wires into handlers.
type Dependencies struct {
	Attendance     *services.AttendanceService
	Dashboard      *services.DashboardService
	Auth           *services.AuthService
	Hub            *realtime.Hub
	Health         *health.HealthChecker
	Metrics        *metrics.Metrics
	Logger         *logging.Logger
	AllowedOrigins []string
	// Clock defaults to time.Now.
	Clock handlers.Clock
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	validation.RegisterJSONTagNames()

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(deps.AllowedOrigins),
	)
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if deps.Health != nil {
		health.NewHealthHandler(deps.Health).RegisterRoutes(router)
	}

	RegisterAttendanceRoutes(router, deps)
	return router
}

// RegisterAttendanceRoutes registers the /api routes
func RegisterAttendanceRoutes(router *gin.Engine, deps Dependencies) {
	authHandlers := handlers.NewAuthHandlers(deps.Auth)
	attendanceHandlers := handlers.NewAttendanceHandlers(deps.Attendance, deps.Clock)
	dashboardHandlers := handlers.NewDashboardHandlers(deps.Dashboard, deps.Hub, deps.Clock, deps.Logger)

	requireAuth := middleware.RequireAuth(deps.Auth)
	requireManager := middleware.RequireRole(models.RoleManager)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandlers.Register)
		authGroup.POST("/login", authHandlers.Login)
		authGroup.GET("/me", requireAuth, authHandlers.Me)
	}

	attendance := api.Group("/attendance", requireAuth)
	{
		attendance.POST("/checkin", attendanceHandlers.CheckIn)
		attendance.POST("/checkout", attendanceHandlers.CheckOut)
		attendance.GET("/today", attendanceHandlers.Today)
		attendance.GET("/my-history", attendanceHandlers.MyHistory)
		attendance.GET("/all", requireManager, attendanceHandlers.All)
		attendance.GET("/export", requireManager, attendanceHandlers.Export)
	}

	dashboard := api.Group("/dashboard", requireAuth)
	{
		dashboard.GET("/employee", dashboardHandlers.Employee)
		dashboard.GET("/manager", requireManager, dashboardHandlers.Manager)
		dashboard.GET("/live", requireManager, dashboardHandlers.Live)
	}
}
