package calendar

import (
	"bytes"
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
)

// Import format identifiers returned by DetectAndParse.
const (
	FormatNative = "native"
	FormatICal   = "ical"
)

// ImportResult is the parsed payload of an import file, before validation.
type ImportResult struct {
	Format string             `json:"format"`
	Events []CreateEventInput `json:"events"`
}

// DetectAndParse auto-detects the file format and returns the events it
// carries. Supports the native JSON export and iCalendar feeds.
func DetectAndParse(data []byte) (*ImportResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty import file")
	}

	if bytes.HasPrefix(trimmed, []byte("BEGIN:VCALENDAR")) {
		events, err := parseICal(trimmed)
		if err != nil {
			return nil, err
		}
		return &ImportResult{Format: FormatICal, Events: events}, nil
	}

	if trimmed[0] == '{' {
		events, err := ParseExport(trimmed)
		if err != nil {
			return nil, err
		}
		return &ImportResult{Format: FormatNative, Events: events}, nil
	}

	return nil, fmt.Errorf("unrecognized import format: expected %s JSON or iCalendar", ExportFormat)
}

// parseICal converts VEVENTs into create inputs. DTSTART supplies the date
// and, when it carries a time part, the HH:MM start. The first category
// matching an event type sets Type.
func parseICal(data []byte) ([]CreateEventInput, error) {
	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse iCalendar: %w", err)
	}

	var inputs []CreateEventInput
	for i, ve := range cal.Events() {
		start := ve.GetProperty(ics.ComponentPropertyDtStart)
		if start == nil {
			return nil, fmt.Errorf("event %d: missing DTSTART", i+1)
		}
		date, hhmm, err := splitICalStamp(start.Value)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}

		in := CreateEventInput{Date: date, Time: hhmm, Type: EventOther}
		if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
			in.Title = p.Value
		}
		if p := ve.GetProperty(ics.ComponentPropertyDescription); p != nil {
			if desc := stripHijriLine(p.Value); desc != "" {
				in.Description = &desc
			}
		}
		for _, p := range ve.GetProperties(ics.ComponentPropertyCategories) {
			if t, ok := matchEventType(p.Value); ok {
				in.Type = t
				break
			}
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// splitICalStamp turns "20250215", "20250215T093000" or "20250215T093000Z"
// into a date key and an optional "HH:MM".
func splitICalStamp(v string) (string, *string, error) {
	if len(v) < 8 {
		return "", nil, fmt.Errorf("invalid DTSTART %q", v)
	}
	date := v[0:4] + "-" + v[4:6] + "-" + v[6:8]
	if len(v) >= 13 && v[8] == 'T' {
		hhmm := v[9:11] + ":" + v[11:13]
		return date, &hhmm, nil
	}
	return date, nil, nil
}

// stripHijriLine removes the informational Hijri line BuildICal appends.
func stripHijriLine(desc string) string {
	lines := strings.Split(desc, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(l, hijriDescPrefix) {
			continue
		}
		kept = append(kept, l)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func matchEventType(s string) (EventType, bool) {
	for _, part := range strings.Split(s, ",") {
		for _, t := range EventTypes {
			if strings.EqualFold(strings.TrimSpace(part), string(t)) {
				return t, true
			}
		}
	}
	return "", false
}
