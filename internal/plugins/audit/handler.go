package audit

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for audit log operations. Handlers are thin:
// bind request, call service, render response. No business logic lives here.
type Handler struct {
	service AuditService
}

// NewHandler creates a new audit handler.
func NewHandler(service AuditService) *Handler {
	return &Handler{service: service}
}

// ActivityResponse is one page of the activity feed with summary stats.
type ActivityResponse struct {
	Entries []AuditEntry   `json:"entries"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Stats   *ActivityStats `json:"stats"`
}

// Activity returns the change feed, newest first
// (GET /api/v1/calendar/activity?page=N).
func (h *Handler) Activity(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	page = min(max(page, 1), maxPage)

	ctx := c.Request().Context()
	entries, total, err := h.service.GetActivity(ctx, page)
	if err != nil {
		return err
	}

	stats, err := h.service.GetStats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ActivityResponse{
		Entries: entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Stats:   stats,
	})
}

// EventHistory returns the change log of one event
// (GET /api/v1/calendar/events/:eid/history). Deleted events keep their
// history.
func (h *Handler) EventHistory(c echo.Context) error {
	eventID := c.Param("eid")
	if eventID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "event ID is required")
	}

	entries, err := h.service.GetEventHistory(c.Request().Context(), eventID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}
