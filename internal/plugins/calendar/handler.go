package calendar

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/campuscal/internal/apperror"
	"github.com/keyxmakerx/campuscal/internal/dates"
)

// maxImportBytes caps uploaded import files.
const maxImportBytes = 10 * 1024 * 1024

// Handler processes HTTP requests for the calendar plugin.
type Handler struct {
	svc CalendarService
}

// NewHandler creates a new calendar Handler.
func NewHandler(svc CalendarService) *Handler {
	return &Handler{svc: svc}
}

// --- Response shapes ---

// ConversionResponse describes one day in both calendars.
type ConversionResponse struct {
	Gregorian  dates.CivilDate `json:"gregorian"`
	Date       string          `json:"date"`
	Hijri      dates.HijriDate `json:"hijri"`
	HijriLabel string          `json:"hijri_label"`
	Weekday    int             `json:"weekday"`
	JulianDay  int             `json:"julian_day"`
}

// GridResponse is a rendered month with its title.
type GridResponse struct {
	Title string `json:"title"`
	Grid  *Grid  `json:"grid"`
}

// SessionResponse is a view session together with the month it shows.
type SessionResponse struct {
	Session *Session `json:"session"`
	Title   string   `json:"title"`
	Grid    *Grid    `json:"grid"`
}

func newConversion(d dates.CivilDate, lang string) ConversionResponse {
	h := dates.GregorianToHijri(d)
	return ConversionResponse{
		Gregorian:  d,
		Date:       d.Key(),
		Hijri:      h,
		HijriLabel: fmt.Sprintf("%d %s %d", h.Day, MonthName(KindHijri, lang, h.Month), h.Year),
		Weekday:    d.Weekday(),
		JulianDay:  d.JulianDay(),
	}
}

// --- Conversion ---

// ToHijriAPI converts a Gregorian date to the tabular Hijri calendar.
// GET /api/v1/calendar/convert/to-hijri?date=YYYY-MM-DD&lang=en
func (h *Handler) ToHijriAPI(c echo.Context) error {
	d, err := h.dateParam(c, "date")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newConversion(d, h.langParam(c)))
}

// ToGregorianAPI converts a Hijri date to Gregorian. The month query
// parameter is 1-based (1 = Muharram).
// GET /api/v1/calendar/convert/to-gregorian?year=1446&month=8&day=1
func (h *Handler) ToGregorianAPI(c echo.Context) error {
	year, err1 := strconv.Atoi(c.QueryParam("year"))
	month, err2 := strconv.Atoi(c.QueryParam("month"))
	day, err3 := strconv.Atoi(c.QueryParam("day"))
	if err1 != nil || err2 != nil || err3 != nil {
		return apperror.NewBadRequest("year, month and day must be integers")
	}

	hd := dates.HijriDate{Year: year, Month: month - 1, Day: day}
	if !hd.Valid() {
		return apperror.NewValidation("not a valid Hijri date")
	}
	d := hd.ToCivil()
	if !d.Valid() {
		return apperror.NewValidation("date falls outside Gregorian years 1 to 9999")
	}
	return c.JSON(http.StatusOK, newConversion(d, h.langParam(c)))
}

// --- Grids ---

// MonthGridAPI renders the month containing a reference date. Missing mode
// and lang fall back to the configured defaults.
// GET /api/v1/calendar/grid?date=YYYY-MM-DD&mode=both&lang=en
func (h *Handler) MonthGridAPI(c echo.Context) error {
	ref := h.svc.Today()
	if c.QueryParam("date") != "" {
		d, err := h.dateParam(c, "date")
		if err != nil {
			return err
		}
		ref = d
	}

	mode := h.svc.Defaults().Mode
	if q := c.QueryParam("mode"); q != "" {
		m, err := ParseMode(q)
		if err != nil {
			return apperror.NewValidation("mode must be one of gregorian, hijri, both")
		}
		mode = m
	}

	grid, err := h.svc.BuildMonth(c.Request().Context(), ref, mode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, GridResponse{Title: grid.Title(h.langParam(c)), Grid: grid})
}

// --- Sessions ---

// CreateSessionAPI opens a view session and returns its first month.
// POST /api/v1/calendar/sessions
func (h *Handler) CreateSessionAPI(c echo.Context) error {
	var req StartSessionInput
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	sess, err := h.svc.StartSession(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return h.renderSession(c, http.StatusCreated, sess)
}

// GetSessionAPI returns a session and the month it is looking at.
// GET /api/v1/calendar/sessions/:sid
func (h *Handler) GetSessionAPI(c echo.Context) error {
	sess, grid, err := h.svc.SessionGrid(c.Request().Context(), c.Param("sid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SessionResponse{Session: sess, Title: sess.Title(), Grid: grid})
}

// NextMonthAPI advances a session by one month.
// POST /api/v1/calendar/sessions/:sid/next
func (h *Handler) NextMonthAPI(c echo.Context) error {
	return h.navigate(c, DirNext)
}

// PreviousMonthAPI moves a session back one month.
// POST /api/v1/calendar/sessions/:sid/previous
func (h *Handler) PreviousMonthAPI(c echo.Context) error {
	return h.navigate(c, DirPrevious)
}

// TodayAPI jumps a session to the current month.
// POST /api/v1/calendar/sessions/:sid/today
func (h *Handler) TodayAPI(c echo.Context) error {
	return h.navigate(c, DirToday)
}

func (h *Handler) navigate(c echo.Context, dir Direction) error {
	sess, err := h.svc.Navigate(c.Request().Context(), c.Param("sid"), dir)
	if err != nil {
		return err
	}
	return h.renderSession(c, http.StatusOK, sess)
}

// SetModeAPI switches a session between calendars.
// PUT /api/v1/calendar/sessions/:sid/mode
func (h *Handler) SetModeAPI(c echo.Context) error {
	var req struct {
		Mode string `json:"mode" validate:"required,calmode"`
	}
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	mode, _ := ParseMode(req.Mode)

	sess, err := h.svc.SetSessionMode(c.Request().Context(), c.Param("sid"), mode)
	if err != nil {
		return err
	}
	return h.renderSession(c, http.StatusOK, sess)
}

// DeleteSessionAPI ends a view session.
// DELETE /api/v1/calendar/sessions/:sid
func (h *Handler) DeleteSessionAPI(c echo.Context) error {
	if err := h.svc.EndSession(c.Request().Context(), c.Param("sid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) renderSession(c echo.Context, status int, sess *Session) error {
	grid, err := h.svc.BuildMonth(c.Request().Context(), sess.Reference, sess.Mode)
	if err != nil {
		return err
	}
	return c.JSON(status, SessionResponse{Session: sess, Title: sess.Title(), Grid: grid})
}

// --- Events ---

// CreateEventAPI creates a new event.
// POST /api/v1/calendar/events
func (h *Handler) CreateEventAPI(c echo.Context) error {
	var req CreateEventInput
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	evt, err := h.svc.CreateEvent(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, evt)
}

// GetEventAPI returns one event.
// GET /api/v1/calendar/events/:eid
func (h *Handler) GetEventAPI(c echo.Context) error {
	evt, err := h.svc.GetEvent(c.Request().Context(), c.Param("eid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, evt)
}

// UpdateEventAPI replaces an event's editable fields.
// PUT /api/v1/calendar/events/:eid
func (h *Handler) UpdateEventAPI(c echo.Context) error {
	var req UpdateEventInput
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	evt, err := h.svc.UpdateEvent(c.Request().Context(), c.Param("eid"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, evt)
}

// DeleteEventAPI removes an event.
// DELETE /api/v1/calendar/events/:eid
func (h *Handler) DeleteEventAPI(c echo.Context) error {
	if err := h.svc.DeleteEvent(c.Request().Context(), c.Param("eid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEventsAPI lists events on one date (?date=) or in a range
// (?from=&to=). With no filter it returns every event.
// GET /api/v1/calendar/events
func (h *Handler) ListEventsAPI(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		events []Event
		err    error
	)
	switch {
	case c.QueryParam("date") != "":
		events, err = h.svc.ListEventsForDate(ctx, c.QueryParam("date"))
	case c.QueryParam("from") != "" || c.QueryParam("to") != "":
		events, err = h.svc.ListEventsInRange(ctx, c.QueryParam("from"), c.QueryParam("to"))
	default:
		events, err = h.svc.ListAllEvents(ctx)
	}
	if err != nil {
		return err
	}
	if events == nil {
		events = []Event{}
	}
	return c.JSON(http.StatusOK, events)
}

// UpcomingEventsAPI returns the next few events from today.
// GET /api/v1/calendar/events/upcoming?limit=5
func (h *Handler) UpcomingEventsAPI(c echo.Context) error {
	limit := 5
	if q := c.QueryParam("limit"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	events, err := h.svc.ListUpcoming(c.Request().Context(), h.svc.Today(), limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []Event{}
	}
	return c.JSON(http.StatusOK, events)
}

// --- Export / import ---

// ExportCalendarAPI returns every event as a downloadable JSON file.
// GET /api/v1/calendar/export
func (h *Handler) ExportCalendarAPI(c echo.Context) error {
	events, err := h.svc.ListAllEvents(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set("Content-Disposition", `attachment; filename="calendar.json"`)
	return c.JSON(http.StatusOK, BuildExport(events, h.svc.Now()))
}

// ExportICalAPI returns every event as an iCalendar feed.
// GET /api/v1/calendar/events.ics
func (h *Handler) ExportICalAPI(c echo.Context) error {
	events, err := h.svc.ListAllEvents(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	body := BuildICal(events, "Student Calendar", h.svc.Now())
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// ImportCalendarAPI imports events from an uploaded native JSON export or
// iCalendar file. With ?preview=true the parsed events are returned without
// being stored.
// POST /api/v1/calendar/import
func (h *Handler) ImportCalendarAPI(c echo.Context) error {
	data, err := readUpload(c)
	if err != nil {
		return err
	}

	result, parseErr := DetectAndParse(data)
	if parseErr != nil {
		return apperror.NewBadRequest(parseErr.Error())
	}

	if c.QueryParam("preview") == "true" {
		return c.JSON(http.StatusOK, result)
	}

	created, err := h.svc.ImportEvents(c.Request().Context(), result.Events)
	if err != nil {
		slog.Warn("calendar import failed",
			slog.String("format", result.Format),
			slog.Int("imported", len(created)),
			slog.Any("error", err),
		)
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"format":   result.Format,
		"imported": len(created),
	})
}

// readUpload reads a multipart "file" field, falling back to the raw body.
func readUpload(c echo.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return nil, apperror.NewBadRequest("could not read uploaded file")
		}
		defer src.Close()
		data, err := io.ReadAll(io.LimitReader(src, maxImportBytes))
		if err != nil {
			return nil, apperror.NewBadRequest("could not read uploaded file")
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes))
	if err != nil || len(data) == 0 {
		return nil, apperror.NewBadRequest("no file uploaded and no request body")
	}
	return data, nil
}

// --- Helpers ---

func (h *Handler) dateParam(c echo.Context, name string) (dates.CivilDate, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return dates.CivilDate{}, apperror.NewBadRequest(name + " is required")
	}
	d, err := dates.ParseKey(raw)
	if err != nil {
		return dates.CivilDate{}, apperror.NewValidation(name + " must be a valid date formatted as YYYY-MM-DD")
	}
	return d, nil
}

// langParam returns the ?lang= query value, or the configured default.
func (h *Handler) langParam(c echo.Context) string {
	if l := c.QueryParam("lang"); SupportedLang(l) {
		return l
	}
	return h.svc.Defaults().Lang
}
