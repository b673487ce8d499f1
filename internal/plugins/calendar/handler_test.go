package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/campuscal/internal/apperror"
	"github.com/keyxmakerx/campuscal/internal/validation"
)

// newTestServer wires the calendar routes onto a bare Echo instance with a
// minimal JSON error handler.
func newTestServer(t *testing.T) (*echo.Echo, CalendarService) {
	t.Helper()
	svc := newMemoryService()
	return newTestServerFor(t, svc), svc
}

// newTestServerFor serves an already configured service.
func newTestServerFor(t *testing.T, svc CalendarService) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = validation.EchoValidator{}
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			_ = c.JSON(appErr.Code, map[string]string{"error": appErr.Type, "message": appErr.Message})
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, map[string]any{"message": he.Message})
			return
		}
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"message": err.Error()})
	}
	RegisterRoutes(e, NewHandler(svc), nil)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHandler_ToHijri(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/v1/calendar/convert/to-hijri?date=2025-03-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	got := decode[ConversionResponse](t, rec)
	if got.Hijri.Year != 1446 || got.Hijri.Month != 8 || got.Hijri.Day != 1 {
		t.Errorf("unexpected Hijri date %+v", got.Hijri)
	}
	if got.HijriLabel != "1 Ramadan 1446" || got.JulianDay != 2460736 {
		t.Errorf("unexpected response %+v", got)
	}

	rec = do(e, http.MethodGet, "/api/v1/calendar/convert/to-hijri?date=2025-02-29", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for an impossible date, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/v1/calendar/convert/to-hijri", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a date, got %d", rec.Code)
	}
}

func TestHandler_ToGregorian(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/v1/calendar/convert/to-gregorian?year=1&month=1&day=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	got := decode[ConversionResponse](t, rec)
	if got.Date != "0622-07-19" || got.JulianDay != 1948440 {
		t.Errorf("unexpected epoch conversion %+v", got)
	}

	// Sha'ban always has 29 days.
	rec = do(e, http.MethodGet, "/api/v1/calendar/convert/to-gregorian?year=1446&month=8&day=30", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for 30 Sha'ban, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/v1/calendar/convert/to-gregorian?year=x&month=8&day=1", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a non-numeric year, got %d", rec.Code)
	}
}

func TestHandler_Grid(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/v1/calendar/grid?date=2025-02-15&mode=hijri&lang=ar", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	got := decode[GridResponse](t, rec)
	if got.Title != "شعبان 1446" || got.Grid.DaysInMonth != 29 {
		t.Errorf("unexpected grid %q / %d", got.Title, got.Grid.DaysInMonth)
	}

	rec = do(e, http.MethodGet, "/api/v1/calendar/grid?mode=lunar", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unknown mode, got %d", rec.Code)
	}
}

func TestHandler_GridUsesConfiguredDefaults(t *testing.T) {
	svc := NewCalendarService(NewMemoryEventRepository(), NewMemorySessionStore(time.Hour), nil, Defaults{Mode: ModeHijri, Lang: LangArabic})
	svc.(*calendarService).now = func() time.Time { return fixedNow }
	e := newTestServerFor(t, svc)

	rec := do(e, http.MethodGet, "/api/v1/calendar/grid?date=2025-02-15", "")
	got := decode[GridResponse](t, rec)
	if got.Grid.Mode != ModeHijri || got.Title != "شعبان 1446" {
		t.Errorf("expected default hijri/ar grid, got %s %q", got.Grid.Mode, got.Title)
	}

	rec = do(e, http.MethodGet, "/api/v1/calendar/grid?date=2025-02-15&mode=gregorian&lang=en", "")
	got = decode[GridResponse](t, rec)
	if got.Grid.Mode != ModeGregorian || got.Title != "February 2025" {
		t.Errorf("explicit query should win, got %s %q", got.Grid.Mode, got.Title)
	}

	rec = do(e, http.MethodGet, "/api/v1/calendar/convert/to-hijri?date=2025-02-15", "")
	if conv := decode[ConversionResponse](t, rec); conv.HijriLabel != "16 شعبان 1446" {
		t.Errorf("expected Arabic label by default, got %q", conv.HijriLabel)
	}
}

func TestHandler_SessionFlow(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/calendar/sessions", `{"mode":"both","date":"2025-02-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	created := decode[SessionResponse](t, rec)
	if created.Title != "February 2025" || created.Grid.DayCells()[0].Secondary == nil {
		t.Errorf("unexpected session response: %+v", created)
	}
	base := "/api/v1/calendar/sessions/" + created.Session.ID

	rec = do(e, http.MethodPost, base+"/next", "")
	if got := decode[SessionResponse](t, rec); got.Title != "March 2025" {
		t.Errorf("after next: %q", got.Title)
	}

	rec = do(e, http.MethodPut, base+"/mode", `{"mode":"hijri"}`)
	if got := decode[SessionResponse](t, rec); got.Title != "Ramadan 1446" || got.Session.Mode != ModeHijri {
		t.Errorf("after mode switch: %q %s", got.Title, got.Session.Mode)
	}

	rec = do(e, http.MethodPut, base+"/mode", `{"mode":"lunar"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unknown mode, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, base+"/today", "")
	if got := decode[SessionResponse](t, rec); got.Session.Reference != day(2025, 2, 10) {
		t.Errorf("after today: %s", got.Session.Reference)
	}

	rec = do(e, http.MethodGet, base, "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = do(e, http.MethodDelete, base, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	rec = do(e, http.MethodPost, base+"/previous", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestHandler_EventCRUD(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/calendar/events",
		`{"title":"Midterm","date":"2025-02-15","time":"09:30","type":"Exam"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	evt := decode[Event](t, rec)

	rec = do(e, http.MethodPost, "/api/v1/calendar/events", `{"title":"","date":"2025-02-15"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "title is required" {
		t.Errorf("unexpected message %q", msg)
	}

	rec = do(e, http.MethodGet, "/api/v1/calendar/events?date=2025-02-15", "")
	if list := decode[[]Event](t, rec); len(list) != 1 || list[0].ID != evt.ID {
		t.Errorf("unexpected list %+v", list)
	}

	rec = do(e, http.MethodGet, "/api/v1/calendar/events?date=2025-02-16", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty JSON array, got %s", rec.Body)
	}

	rec = do(e, http.MethodPut, "/api/v1/calendar/events/"+evt.ID, `{"title":"Midterm","date":"2025-02-17"}`)
	if got := decode[Event](t, rec); got.Date != "2025-02-17" || got.Time != nil {
		t.Errorf("unexpected update %+v", got)
	}

	rec = do(e, http.MethodGet, "/api/v1/calendar/events?from=2025-02-01&to=2025-02-28", "")
	if list := decode[[]Event](t, rec); len(list) != 1 {
		t.Errorf("expected 1 event in range, got %d", len(list))
	}

	rec = do(e, http.MethodGet, "/api/v1/calendar/events/upcoming", "")
	if list := decode[[]Event](t, rec); len(list) != 1 {
		t.Errorf("expected 1 upcoming event, got %d", len(list))
	}

	rec = do(e, http.MethodDelete, "/api/v1/calendar/events/"+evt.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/api/v1/calendar/events/"+evt.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_ExportImport(t *testing.T) {
	e, svc := newTestServer(t)
	_, _ = svc.CreateEvent(context.Background(), CreateEventInput{Title: "Midterm", Date: "2025-02-15", Time: strPtr("09:30"), Type: EventExam})

	rec := do(e, http.MethodGet, "/api/v1/calendar/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	exported := rec.Body.String()
	if !strings.Contains(exported, ExportFormat) {
		t.Errorf("export missing format marker: %s", exported)
	}
	if !strings.Contains(exported, `"exported_at":"2025-02-10T14:30:00Z"`) {
		t.Errorf("export should be stamped by the service clock: %s", exported)
	}

	rec = do(e, http.MethodGet, "/api/v1/calendar/events.ics", "")
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "SUMMARY:Midterm") {
		t.Errorf("iCal feed missing event: %s", rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "DTSTAMP:20250210T143000Z") {
		t.Errorf("iCal DTSTAMP should come from the service clock: %s", rec.Body)
	}

	rec = do(e, http.MethodPost, "/api/v1/calendar/import?preview=true", exported)
	preview := decode[ImportResult](t, rec)
	if preview.Format != FormatNative || len(preview.Events) != 1 {
		t.Errorf("unexpected preview %+v", preview)
	}

	rec = do(e, http.MethodPost, "/api/v1/calendar/import", exported)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	all, _ := svc.ListAllEvents(context.Background())
	if len(all) != 2 {
		t.Errorf("expected 2 events after import, got %d", len(all))
	}

	rec = do(e, http.MethodPost, "/api/v1/calendar/import", `{"format":"other"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown format, got %d", rec.Code)
	}
}
