package calendar

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/keyxmakerx/campuscal/internal/dates"
)

// ExportFormat identifies the native JSON envelope.
const ExportFormat = "student-calendar-v1"

// CalendarExport is the top-level JSON envelope for event export.
type CalendarExport struct {
	Format     string        `json:"format"`  // "student-calendar-v1"
	Version    int           `json:"version"` // schema version (1)
	ExportedAt time.Time     `json:"exported_at"`
	Events     []ExportEvent `json:"events"`
}

// ExportEvent is an event for export. Hijri is informational only and is
// ignored on import; Date is authoritative.
type ExportEvent struct {
	Title       string          `json:"title"`
	Date        string          `json:"date"`
	Hijri       dates.HijriDate `json:"hijri"`
	Time        *string         `json:"time,omitempty"`
	Type        EventType       `json:"type"`
	Description *string         `json:"description,omitempty"`
}

// BuildExport creates a CalendarExport from stored events.
func BuildExport(events []Event, now time.Time) *CalendarExport {
	export := &CalendarExport{
		Format:     ExportFormat,
		Version:    1,
		ExportedAt: now.UTC(),
		Events:     make([]ExportEvent, 0, len(events)),
	}
	for _, evt := range events {
		out := ExportEvent{
			Title:       evt.Title,
			Date:        evt.Date,
			Time:        evt.Time,
			Type:        evt.Type,
			Description: evt.Description,
		}
		if d, err := evt.CivilDate(); err == nil {
			out.Hijri = dates.GregorianToHijri(d)
		}
		export.Events = append(export.Events, out)
	}
	return export
}

// ParseExport decodes a native export and returns create inputs for each
// event. Inputs are not validated here.
func ParseExport(data []byte) ([]CreateEventInput, error) {
	var export CalendarExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parse calendar JSON: %w", err)
	}
	if export.Format != ExportFormat {
		return nil, fmt.Errorf("unrecognized calendar format %q: expected %s", export.Format, ExportFormat)
	}

	inputs := make([]CreateEventInput, 0, len(export.Events))
	for _, evt := range export.Events {
		inputs = append(inputs, CreateEventInput{
			Title:       evt.Title,
			Date:        evt.Date,
			Time:        evt.Time,
			Type:        evt.Type,
			Description: evt.Description,
		})
	}
	return inputs, nil
}

// icalFloatingLayout writes a DATE-TIME without a zone designator: events
// are timezone-naive, so the feed uses floating local times.
const icalFloatingLayout = "20060102T150405"

// BuildICal renders events as an iCalendar feed. Timed events last one hour;
// untimed events are all-day.
func BuildICal(events []Event, name string, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//campuscal//dual calendar//EN")
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(name)

	for _, evt := range events {
		d, err := evt.CivilDate()
		if err != nil {
			continue
		}
		ve := cal.AddEvent(evt.ID + "@campuscal")
		ve.SetDtStampTime(now)
		ve.SetSummary(evt.Title)
		ve.AddCategory(strings.ToUpper(string(evt.Type)))

		h := dates.GregorianToHijri(d)
		desc := fmt.Sprintf("%s %d %s %d", hijriDescPrefix, h.Day, MonthName(KindHijri, LangEnglish, h.Month), h.Year)
		if evt.Description != nil {
			desc = *evt.Description + "\n" + desc
		}
		ve.SetDescription(desc)

		if evt.HasTime() {
			start, err := time.Parse(KeyTimeLayout, evt.Date+" "+*evt.Time)
			if err != nil {
				continue
			}
			ve.SetProperty(ics.ComponentPropertyDtStart, start.Format(icalFloatingLayout))
			ve.SetProperty(ics.ComponentPropertyDtEnd, start.Add(time.Hour).Format(icalFloatingLayout))
		} else {
			ve.SetAllDayStartAt(d.Time())
			ve.SetAllDayEndAt(d.AddDays(1).Time())
		}
	}
	return cal.Serialize()
}

// hijriDescPrefix starts the Hijri line added to iCal descriptions.
const hijriDescPrefix = "Hijri date:"

// KeyTimeLayout parses a date key and an HH:MM time together.
const KeyTimeLayout = dates.KeyLayout + " 15:04"
