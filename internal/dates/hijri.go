package dates

import "fmt"

// The tabular Hijri calendar repeats every 30 lunar years (10631 days). Its
// epoch is JDN 1948440; hijriCycleShift moves the epoch back one cycle so the
// cycle index stays positive for the first Hijri years.
const (
	hijriEpoch      = 1948440
	hijriCycleDays  = 10631
	hijriCycleShift = 10632
)

// HijriDate is a date in the tabular Hijri calendar. Month is zero-indexed
// (0 = Muharram, 11 = Dhu al-Hijjah). Values are only obtained from
// GregorianToHijri so they never drift from their civil counterpart.
type HijriDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String formats the date as YYYY-MM-DD with a 1-indexed month.
func (h HijriDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", h.Year, h.Month+1, h.Day)
}

// Valid reports whether the year is positive and month and day are within
// range for the year.
func (h HijriDate) Valid() bool {
	if h.Year < 1 || h.Month < 0 || h.Month > 11 {
		return false
	}
	return h.Day >= 1 && h.Day <= DaysInHijriMonth(h.Year, h.Month)
}

// ToCivil converts the date back to the Gregorian calendar.
func (h HijriDate) ToCivil() CivilDate {
	return HijriToGregorian(h.Year, h.Month, h.Day)
}

// IsHijriLeapYear reports whether Dhu al-Hijjah has 30 days in year. Eleven
// years of every 30-year cycle are leap years.
func IsHijriLeapYear(year int) bool {
	return floorMod(11*year+14, 30) < 11
}

// DaysInHijriMonth returns the length of a zero-indexed Hijri month.
// Months alternate 30/29 days; the twelfth month gains a day in leap years.
func DaysInHijriMonth(year, month int) int {
	if month == 11 {
		if IsHijriLeapYear(year) {
			return 30
		}
		return 29
	}
	if month%2 == 0 {
		return 30
	}
	return 29
}

// GregorianToHijri converts a civil date to the tabular Hijri calendar.
// This is an arithmetic approximation and can differ by a day or two from
// observation-based calendars such as Umm al-Qura.
func GregorianToHijri(d CivilDate) HijriDate {
	l := d.JulianDay() - hijriEpoch + hijriCycleShift
	n := floorDiv(l-1, hijriCycleDays)
	l = l - hijriCycleDays*n + 354
	j := floorDiv(10985-l, 5316)*floorDiv(50*l, 17719) + floorDiv(l, 5670)*floorDiv(43*l, 15238)
	l = l - floorDiv(30-j, 15)*floorDiv(17719*j, 50) - floorDiv(j, 16)*floorDiv(15238*j, 43) + 29
	month := floorDiv(24*l, 709)
	day := l - floorDiv(709*month, 24)
	year := 30*n + j - 30

	return HijriDate{Year: year, Month: month - 1, Day: day}
}

// HijriToGregorian converts a Hijri date with a zero-indexed month to the
// Gregorian calendar. Callers must pass a day that exists in the month, with
// one exception: DaysInHijriMonth+1 lands on the 1st of the following month.
func HijriToGregorian(year, month, day int) CivilDate {
	return JulianDayToCivil(HijriToJulianDay(year, month, day))
}

// HijriToJulianDay returns the Julian Day Number of a Hijri date.
func HijriToJulianDay(year, month, day int) int {
	m := month + 1
	return floorDiv(11*year+3, 30) + 354*year + 30*m - floorDiv(m-1, 2) + day + hijriEpoch - 385
}

// HijriMonthStart returns the civil date of the 1st of the Hijri month
// containing d.
func HijriMonthStart(d CivilDate) CivilDate {
	h := GregorianToHijri(d)
	return HijriToGregorian(h.Year, h.Month, 1)
}

// AddHijriMonths shifts a Hijri (year, zero-indexed month) pair by delta
// months, carrying into the year at the 11/0 boundary.
func AddHijriMonths(year, month, delta int) (int, int) {
	total := year*12 + month + delta
	return floorDiv(total, 12), floorMod(total, 12)
}
