package calendar

import (
	"fmt"
	"time"

	"github.com/keyxmakerx/campuscal/internal/dates"
)

// Session is one client's view of the calendar: the reference date that
// decides which month is shown, the active mode and the label language.
// Sessions never hold events.
type Session struct {
	ID        string          `json:"id"`
	Reference dates.CivilDate `json:"reference"`
	Mode      Mode            `json:"mode"`
	Lang      string          `json:"lang"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Next advances the session to the following month in its mode.
func (s *Session) Next() {
	s.Reference = Next(s.Reference, s.Mode)
}

// Previous moves the session back one month in its mode.
func (s *Session) Previous() {
	s.Reference = Previous(s.Reference, s.Mode)
}

// SetMode switches calendars. The reference date is kept, so the new grid
// shows whichever month of the new calendar contains it.
func (s *Session) SetMode(mode Mode) {
	s.Mode = mode
}

// GoTo jumps to the month containing d.
func (s *Session) GoTo(d dates.CivilDate) {
	s.Reference = d
}

// Title returns the heading for the session's current month.
func (s *Session) Title() string {
	if s.Mode == ModeHijri {
		h := dates.GregorianToHijri(s.Reference)
		return fmt.Sprintf("%s %d", MonthName(KindHijri, s.Lang, h.Month), h.Year)
	}
	return fmt.Sprintf("%s %d", MonthName(KindGregorian, s.Lang, s.Reference.Month-1), s.Reference.Year)
}
