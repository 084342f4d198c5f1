package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"interactions-relay/internal/common/logging"
	"interactions-relay/internal/config"
)

// Run is the main entry point for the application
func Run() error {
	// A .env file is optional
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logging.InitGlobalLogger(cfg.LogLevel, cfg.LogFormat)
	defer logging.MustSync()

	logger.Info("Starting interactions relay",
		logging.String("bus", cfg.BusType),
		logging.String("port", cfg.Port),
	)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", err)
		return err
	}

	app, err := New(cfg)
	if err != nil {
		logger.Error("Failed to initialize application", err)
		return err
	}

	srv, err := app.RunServer()
	if err != nil {
		logger.Error("Server failed to start", err)
		app.Shutdown(context.Background())
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case sig := <-quit:
		logger.Info("Shutting down server...", logging.String("signal", sig.String()))
	case serveErr = <-srv.Errors():
		logger.Error("Server stopped unexpectedly", serveErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Stop accepting requests before draining publishes
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	if err := app.Shutdown(ctx); err != nil {
		logger.Warn("Error during app shutdown", logging.Err(err))
	}

	logger.Info("Server exited")
	return serveErr
}
