package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jgirmay/attendance/internal/health"
	"github.com/jgirmay/attendance/pkg/attendance"
	"github.com/jgirmay/attendance/pkg/auth"
	"github.com/jgirmay/attendance/pkg/config"
	"github.com/jgirmay/attendance/pkg/database"
	"github.com/jgirmay/attendance/pkg/logging"
	"github.com/jgirmay/attendance/pkg/metrics"
	"github.com/jgirmay/attendance/pkg/realtime"
	"github.com/jgirmay/attendance/pkg/repository"
	"github.com/jgirmay/attendance/pkg/routes"
	"github.com/jgirmay/attendance/pkg/services"
)

// application holds everything main needs to serve and shut down.
type application struct {
	db   *gorm.DB
	hub  *realtime.Hub
	deps routes.Dependencies
}

// bootstrap opens the store and builds the service graph.
func bootstrap(cfg *config.Config, logger *logging.Logger) (*application, error) {
	logger.Info("[INIT] Opening database", zap.String("type", cfg.Database.Type))
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	logger.Info("[INIT] ✓ Database ready")

	registry := repository.NewRegistry(db)
	if err := registry.Initialize(); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to initialize repository registry: %w", err)
	}

	policy, err := attendance.NewPolicy(cfg.Attendance)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	logger.Info("[INIT] ✓ Attendance policy loaded",
		zap.String("timezone", policy.Location.String()),
		zap.Int("late_cutoff_hour", policy.LateCutoffHour),
		zap.Duration("half_day_threshold", policy.HalfDayThreshold))

	m := metrics.NewMetrics()
	hub := realtime.NewHub(logger, m.LiveClients, nil)

	tokens := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenExpiry, cfg.Auth.Issuer)
	hasher := auth.NewPasswordHasher(0)

	sqlDB, err := db.DB()
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	return &application{
		db:  db,
		hub: hub,
		deps: routes.Dependencies{
			Attendance:     services.NewAttendanceService(registry.AttendanceRepository, policy, hub, m, logger),
			Dashboard:      services.NewDashboardService(registry.AttendanceRepository, registry.UserRepository, policy),
			Auth:           services.NewAuthService(registry.UserRepository, tokens, hasher, logger),
			Hub:            hub,
			Health:         health.NewHealthChecker(sqlDB, hub.ClientCount),
			Metrics:        m,
			Logger:         logger,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
	}, nil
}

// close releases the hub and the database.
func (a *application) close() error {
	a.hub.Close()
	return database.Close(a.db)
}
