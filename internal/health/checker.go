package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Status values
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// HealthStatus represents the overall system health
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Message   string                   `json:"message"`
	Services  map[string]ServiceHealth `json:"services"`
	Uptime    string                   `json:"uptime"`
}

// ServiceHealth represents health of a dependency
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Latency string `json:"latency_ms"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

// HealthChecker performs health checks on system components
type HealthChecker struct {
	db          Pinger
	liveClients func() int
	timeout     time.Duration
	startTime   time.Time
}

// NewHealthChecker creates a new health checker. liveClients may be nil.
func NewHealthChecker(db Pinger, liveClients func() int) *HealthChecker {
	return &HealthChecker{
		db:          db,
		liveClients: liveClients,
		timeout:     2 * time.Second,
		startTime:   time.Now(),
	}
}

// Check performs a complete health check
func (hc *HealthChecker) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Services:  make(map[string]ServiceHealth),
		Uptime:    hc.calculateUptime(),
	}

	dbHealth := hc.checkDatabase(ctx)
	status.Services["database"] = dbHealth

	if hc.liveClients != nil {
		status.Services["live_feed"] = ServiceHealth{
			Status:  StatusHealthy,
			Message: fmt.Sprintf("%d connected clients", hc.liveClients()),
			Latency: "0",
		}
	}

	if dbHealth.Status != StatusHealthy {
		status.Status = StatusDegraded
		status.Message = "Database connectivity issue"
	} else {
		status.Message = "System operating normally"
	}
	return status
}

// Ready reports whether the store is reachable.
func (hc *HealthChecker) Ready(ctx context.Context) bool {
	return hc.checkDatabase(ctx).Status == StatusHealthy
}

// checkDatabase verifies database connectivity
func (hc *HealthChecker) checkDatabase(ctx context.Context) ServiceHealth {
	if hc.db == nil {
		return ServiceHealth{Status: StatusUnhealthy, Message: "Database not configured", Latency: "0"}
	}

	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	start := time.Now()
	err := hc.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return ServiceHealth{
			Status:  StatusUnhealthy,
			Message: "Database connection failed: " + err.Error(),
			Latency: fmt.Sprintf("%d", latency.Milliseconds()),
		}
	}
	return ServiceHealth{
		Status:  StatusHealthy,
		Message: "Database connection successful",
		Latency: fmt.Sprintf("%d", latency.Milliseconds()),
	}
}

// calculateUptime calculates system uptime as human-readable string
func (hc *HealthChecker) calculateUptime() string {
	return formatUptime(time.Since(hc.startTime))
}

func formatUptime(elapsed time.Duration) string {
	days := int(elapsed.Hours()) / 24
	hours := int(elapsed.Hours()) % 24
	minutes := int(elapsed.Minutes()) % 60
	seconds := int(elapsed.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
