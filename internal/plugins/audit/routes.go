package audit

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the read-only audit routes beside the calendar API.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/v1/calendar")

	g.GET("/activity", h.Activity)
	g.GET("/events/:eid/history", h.EventHistory)
}
