package calendar

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all calendar routes under /api/v1/calendar.
// Routes that change state go through the optional write middleware
// (the rate limiter in production); reads are unthrottled.
func RegisterRoutes(e *echo.Echo, h *Handler, write echo.MiddlewareFunc) {
	g := e.Group("/api/v1/calendar")

	var mw []echo.MiddlewareFunc
	if write != nil {
		mw = append(mw, write)
	}

	// Date conversion.
	g.GET("/convert/to-hijri", h.ToHijriAPI)
	g.GET("/convert/to-gregorian", h.ToGregorianAPI)

	// Stateless month grid.
	g.GET("/grid", h.MonthGridAPI)

	// View sessions (reference date + mode per client).
	g.POST("/sessions", h.CreateSessionAPI, mw...)
	g.GET("/sessions/:sid", h.GetSessionAPI)
	g.POST("/sessions/:sid/next", h.NextMonthAPI, mw...)
	g.POST("/sessions/:sid/previous", h.PreviousMonthAPI, mw...)
	g.POST("/sessions/:sid/today", h.TodayAPI, mw...)
	g.PUT("/sessions/:sid/mode", h.SetModeAPI, mw...)
	g.DELETE("/sessions/:sid", h.DeleteSessionAPI, mw...)

	// Events. Static paths are registered before :eid so they win.
	g.GET("/events", h.ListEventsAPI)
	g.GET("/events/upcoming", h.UpcomingEventsAPI)
	g.GET("/events.ics", h.ExportICalAPI)
	g.POST("/events", h.CreateEventAPI, mw...)
	g.GET("/events/:eid", h.GetEventAPI)
	g.PUT("/events/:eid", h.UpdateEventAPI, mw...)
	g.DELETE("/events/:eid", h.DeleteEventAPI, mw...)

	// Export / import.
	g.GET("/export", h.ExportCalendarAPI)
	g.POST("/import", h.ImportCalendarAPI, mw...)
}
