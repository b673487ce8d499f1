// Package main is the entry point for the campus calendar server. It loads
// configuration, connects to Redis when one is configured, wires the
// calendar plugin, and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/keyxmakerx/campuscal/internal/app"
	"github.com/keyxmakerx/campuscal/internal/config"
	"github.com/keyxmakerx/campuscal/internal/database"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	slog.Info("starting campus calendar",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("default_mode", cfg.Calendar.DefaultMode),
	)

	// --- Connect to Redis (optional) ---
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	cancel()
	if err != nil {
		slog.Error("failed to connect to Redis", slog.Any("error", err))
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		slog.Info("connected to Redis, view sessions are shared")
	} else {
		slog.Info("REDIS_URL not set, view sessions kept in memory")
	}

	// --- Create Application ---
	application := app.New(cfg, rdb)
	application.RegisterRoutes()

	// --- Graceful Shutdown ---
	// Listen for interrupt/term signals to drain connections cleanly.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := application.Echo.Shutdown(ctx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown, which is expected.
		slog.Info("server stopped", slog.Any("reason", err))
	}
}

// setupLogging configures the global slog logger. Development uses text
// format for readability, production uses JSON for log aggregation. LOG_LEVEL
// picks the minimum level.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel maps a LOG_LEVEL value to a slog level. Unknown values fall
// back to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
