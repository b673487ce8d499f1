package calendar

import "github.com/keyxmakerx/campuscal/internal/dates"

// Next returns the reference date of the month after ref's month. In
// ModeHijri a month is a Hijri month, so the civil date moves by 29 or 30
// days rather than one Gregorian month.
func Next(ref dates.CivilDate, mode Mode) dates.CivilDate {
	return shiftMonth(ref, mode, 1)
}

// Previous returns the reference date of the month before ref's month.
func Previous(ref dates.CivilDate, mode Mode) dates.CivilDate {
	return shiftMonth(ref, mode, -1)
}

// shiftMonth moves to the 1st of the month delta months away, counted in the
// primary calendar of mode. ModeBoth navigates Gregorian months because its
// grid is keyed by Gregorian days.
func shiftMonth(ref dates.CivilDate, mode Mode, delta int) dates.CivilDate {
	if mode == ModeHijri {
		h := dates.GregorianToHijri(ref)
		year, month := dates.AddHijriMonths(h.Year, h.Month, delta)
		return dates.HijriToGregorian(year, month, 1)
	}

	total := ref.Year*12 + (ref.Month - 1) + delta
	year := total / 12
	month := total%12 + 1
	return dates.NewCivilDate(year, month, 1)
}

// SameMonth reports whether a and b fall in the same month of mode's
// primary calendar.
func SameMonth(a, b dates.CivilDate, mode Mode) bool {
	if mode == ModeHijri {
		ha, hb := dates.GregorianToHijri(a), dates.GregorianToHijri(b)
		return ha.Year == hb.Year && ha.Month == hb.Month
	}
	return a.Year == b.Year && a.Month == b.Month
}
