// Package middleware provides HTTP middleware for the calendar's Echo server.
// Middleware is applied globally (all routes) or per-route group depending
// on the middleware type. See internal/app/routes.go for registration.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/campuscal/internal/apperror"
)

// requestIDKey is the echo.Context key holding the request ID.
const requestIDKey = "request_id"

// RequestLogger returns middleware that logs every HTTP request with
// structured fields: method, path, status, latency, remote IP and a request
// ID. An incoming X-Request-ID header is reused; otherwise a UUID is
// generated and echoed back.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			err := next(c)

			status := StatusOf(c, err)
			attrs := []slog.Attr{
				slog.String("request_id", id),
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", status),
				slog.Duration("latency", time.Since(start)),
				slog.String("remote_ip", c.RealIP()),
			}
			if req.URL.RawQuery != "" {
				attrs = append(attrs, slog.String("query", req.URL.RawQuery))
			}
			if err != nil && status >= 500 {
				attrs = append(attrs, slog.Any("error", err))
			}

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}
			slog.LogAttrs(req.Context(), level, "request", attrs...)

			return err
		}
	}
}

// GetRequestID returns the request ID assigned by RequestLogger, or "".
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// StatusOf returns the status code a request will be answered with. Errors
// returned by handlers are rendered later by the error handler, so the
// response status is not final yet when middleware sees them.
func StatusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
