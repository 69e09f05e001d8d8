package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jgirmay/attendance/pkg/config"
	"github.com/jgirmay/attendance/pkg/logging"
	"github.com/jgirmay/attendance/pkg/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Get()
	defer func() { _ = logger.Sync() }()

	logger.Info("[INIT] Configuration loaded", zap.String("config", cfg.String()))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := bootstrap(cfg, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(app.deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("[INFO] Starting HTTP server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("[SHUTDOWN] Received signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("[SHUTDOWN] Server error", zap.Error(err))
		}
	}

	// Give requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("[SHUTDOWN] Server shutdown error", zap.Error(err))
	}

	logger.Info("[SHUTDOWN] Closing live feed and database...")
	if err := app.close(); err != nil {
		logger.Error("[SHUTDOWN] Close error", zap.Error(err))
	}
	logger.Info("[SHUTDOWN] ✓ Graceful shutdown complete")
}
