// Package calendar provides the dual Gregorian/Hijri calendar for the student
// portal: month grids in either calendar (or both side by side), month
// navigation per viewing session, and an in-memory event store keyed by
// Gregorian date. Events are always stored against the civil date; the Hijri
// view is derived on every render and never persisted.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/keyxmakerx/campuscal/internal/dates"
)

// Mode selects which calendar drives the month grid.
type Mode string

// Calendar mode constants.
const (
	// ModeGregorian lays out Gregorian months.
	ModeGregorian Mode = "gregorian"
	// ModeHijri lays out tabular Hijri months.
	ModeHijri Mode = "hijri"
	// ModeBoth lays out Gregorian months labelled with the Hijri date.
	ModeBoth Mode = "both"
)

// ParseMode parses a mode name case-insensitively. An empty string is an
// error so callers decide their own default.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeGregorian, ModeHijri, ModeBoth:
		return m, nil
	default:
		return "", fmt.Errorf("unknown calendar mode %q", s)
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	_, err := ParseMode(string(m))
	return err == nil
}

// EventType classifies a calendar event.
type EventType string

// Event type constants.
const (
	EventExam     EventType = "Exam"
	EventMeeting  EventType = "Meeting"
	EventDeadline EventType = "Deadline"
	EventOther    EventType = "Other"
)

// EventTypes lists the accepted event types in display order.
var EventTypes = []EventType{EventExam, EventMeeting, EventDeadline, EventOther}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	for _, et := range EventTypes {
		if t == et {
			return true
		}
	}
	return false
}

// Event is a single calendar entry. Date is always a Gregorian YYYY-MM-DD key.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Time        *string   `json:"time,omitempty"` // "HH:MM", 24-hour
	Type        EventType `json:"type"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasTime returns true if this event has a start time (not all-day).
func (e *Event) HasTime() bool {
	return e.Time != nil && *e.Time != ""
}

// CivilDate parses the event's date key.
func (e *Event) CivilDate() (dates.CivilDate, error) {
	return dates.ParseKey(e.Date)
}

// clone returns a deep copy so callers never share pointers with the store.
func (e Event) clone() Event {
	if e.Time != nil {
		t := *e.Time
		e.Time = &t
	}
	if e.Description != nil {
		d := *e.Description
		e.Description = &d
	}
	return e
}

// --- Grid ---

// SecondaryLabel is the Hijri date shown under a Gregorian day in ModeBoth.
type SecondaryLabel struct {
	Year  int `json:"year"`
	Month int `json:"month"` // zero-indexed
	Day   int `json:"day"`
}

// Cell is one square of a month grid. Blank cells pad the first week.
type Cell struct {
	Blank     bool            `json:"blank"`
	Day       int             `json:"day,omitempty"`
	Date      string          `json:"date,omitempty"`
	Weekday   int             `json:"weekday"`
	Secondary *SecondaryLabel `json:"secondary,omitempty"`
	Events    []Event         `json:"events,omitempty"`
	IsToday   bool            `json:"is_today,omitempty"`
}

// Grid is one rendered calendar page.
type Grid struct {
	Mode Mode `json:"mode"`

	// Year and MonthIndex are in the primary calendar of Mode: Hijri for
	// ModeHijri, Gregorian otherwise. MonthIndex is zero-indexed so it can
	// index a month-name table directly.
	Year       int `json:"year"`
	MonthIndex int `json:"month_index"`

	Reference     string `json:"reference"`
	LeadingBlanks int    `json:"leading_blanks"`
	DaysInMonth   int    `json:"days_in_month"`
	Cells         []Cell `json:"cells"`
}

// PrimaryCalendar returns which calendar the grid's year and month are in.
func (g *Grid) PrimaryCalendar() CalendarKind {
	if g.Mode == ModeHijri {
		return KindHijri
	}
	return KindGregorian
}

// Title returns a display title such as "February 2025" or "Sha'ban 1446".
func (g *Grid) Title(lang string) string {
	return fmt.Sprintf("%s %d", MonthName(g.PrimaryCalendar(), lang, g.MonthIndex), g.Year)
}

// DayCells returns only the non-blank cells.
func (g *Grid) DayCells() []Cell {
	if g.LeadingBlanks >= len(g.Cells) {
		return nil
	}
	return g.Cells[g.LeadingBlanks:]
}

// EventsForDay returns events on the given primary-calendar day number.
func (g *Grid) EventsForDay(day int) []Event {
	idx := g.LeadingBlanks + day - 1
	if day < 1 || idx >= len(g.Cells) {
		return nil
	}
	return g.Cells[idx].Events
}

// --- Request DTOs ---

// CreateEventInput is the input for creating an event. Validated by the
// service before it reaches the store.
type CreateEventInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Date        string    `json:"date" validate:"required,datekey"`
	Time        *string   `json:"time,omitempty" validate:"omitempty,hhmm"`
	Type        EventType `json:"type" validate:"omitempty,eventtype"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdateEventInput replaces the editable fields of an event. The ID never
// changes.
type UpdateEventInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Date        string    `json:"date" validate:"required,datekey"`
	Time        *string   `json:"time,omitempty" validate:"omitempty,hhmm"`
	Type        EventType `json:"type" validate:"omitempty,eventtype"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
}
