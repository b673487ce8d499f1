package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/campuscal/internal/middleware"
	"github.com/keyxmakerx/campuscal/internal/plugins/audit"
	"github.com/keyxmakerx/campuscal/internal/plugins/calendar"
)

// RegisterRoutes wires the calendar and audit plugins and registers every
// route. This is the single place where all routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", a.healthz)

	if a.Metrics != nil {
		e.GET("/metrics", a.Metrics.Handler())
	}

	// Redis, when configured, backs everything that must be shared between
	// instances: view sessions and the activity log.
	var sessions calendar.SessionStore
	var auditRepo audit.AuditRepository
	if a.Redis != nil {
		sessions = calendar.NewRedisSessionStore(a.Redis, a.Config.Calendar.SessionTTL)
		auditRepo = audit.NewRedisRepository(a.Redis)
	} else {
		sessions = calendar.NewMemorySessionStore(a.Config.Calendar.SessionTTL)
		auditRepo = audit.NewMemoryRepository()
	}

	// --- Audit plugin ---
	auditSvc := audit.NewAuditService(auditRepo)
	audit.RegisterRoutes(e, audit.NewHandler(auditSvc))

	// --- Calendar plugin ---
	// Config.Load has already validated the mode.
	mode, _ := calendar.ParseMode(a.Config.Calendar.DefaultMode)
	svc := calendar.NewCalendarService(calendar.NewMemoryEventRepository(), sessions, calendar.NewAuditRecorderAdapter(auditSvc), calendar.Defaults{
		Mode: mode,
		Lang: a.Config.Calendar.DefaultLang,
	})

	limiter := middleware.RateLimit(a.Config.RateLimit.RPS, a.Config.RateLimit.Burst)
	calendar.RegisterRoutes(e, calendar.NewHandler(svc), limiter)
}

// healthz reports ok, or 503 when the configured Redis is unreachable.
func (a *App) healthz(c echo.Context) error {
	status := map[string]string{"status": "ok", "sessions": "memory"}
	if a.Redis == nil {
		return c.JSON(http.StatusOK, status)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	status["sessions"] = "redis"
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		status["status"] = "degraded"
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
