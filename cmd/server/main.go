package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"mafioso/internal/app"
	"mafioso/internal/config"
	"mafioso/internal/scenario"
	httpTransport "mafioso/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set up logger
	level := parseLogLevel(cfg.Logging.Level)

	var logger *slog.Logger
	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	} else {
		logger = slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		}))
	}

	slog.SetDefault(logger)

	logger.Info("starting mafioso game server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Load scenarios
	catalog, err := scenario.Load()
	if err != nil {
		logger.Error("failed to load scenarios", "error", err)
		os.Exit(1)
	}
	logger.Info("scenarios loaded", "count", catalog.Len())

	// Create game hub
	hub := app.NewGameHub(app.HubOptions{
		Settings:         cfg.GameSettings(),
		RoomCodeLength:   cfg.Game.RoomCodeLength,
		StaleGameTimeout: cfg.Game.StaleRoomTimeout,
	}, catalog, logger)
	defer hub.Close()

	// Create HTTP server
	server := httpTransport.NewServer(cfg, hub, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
