// Package dates implements the calendar arithmetic behind the dual calendar:
// Gregorian civil dates, Julian Day Numbers and the tabular Hijri calendar.
// Every function here is pure integer arithmetic with no shared state, so all
// of it is safe for concurrent use.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeyLayout is the ISO date layout used for event keys and the HTTP API.
const KeyLayout = "2006-01-02"

// CivilDate is a timezone-naive proleptic Gregorian date.
type CivilDate struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
	Day   int `json:"day"`   // 1-31
}

// NewCivilDate returns the civil date for the given components. It does not
// validate them; use Valid when the input comes from outside.
func NewCivilDate(year, month, day int) CivilDate {
	return CivilDate{Year: year, Month: month, Day: day}
}

// FromTime returns the civil date of t in t's own location.
func FromTime(t time.Time) CivilDate {
	return CivilDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseKey parses a zero-padded YYYY-MM-DD key and rejects dates that do not
// exist in the Gregorian calendar (e.g. 2025-02-30).
func ParseKey(key string) (CivilDate, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return CivilDate{}, fmt.Errorf("date %q must be formatted as YYYY-MM-DD", key)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return CivilDate{}, fmt.Errorf("date %q must be formatted as YYYY-MM-DD", key)
		}
		nums[i] = n
	}
	d := CivilDate{Year: nums[0], Month: nums[1], Day: nums[2]}
	if !d.Valid() {
		return CivilDate{}, fmt.Errorf("date %q is not a valid calendar date", key)
	}
	return d, nil
}

// Key formats the date as the zero-padded YYYY-MM-DD event key.
func (d CivilDate) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// String implements fmt.Stringer.
func (d CivilDate) String() string {
	return d.Key()
}

// Valid reports whether the date exists in the Gregorian calendar within the
// years 1 through 9999.
func (d CivilDate) Valid() bool {
	if d.Year < 1 || d.Year > 9999 || d.Month < 1 || d.Month > 12 {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInGregorianMonth(d.Year, d.Month)
}

// JulianDay returns the Julian Day Number of the date.
func (d CivilDate) JulianDay() int {
	return CivilToJulianDay(d.Year, d.Month, d.Day)
}

// Weekday returns the day of the week, 0 = Sunday through 6 = Saturday.
func (d CivilDate) Weekday() int {
	return floorMod(d.JulianDay()+1, 7)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d CivilDate) AddDays(n int) CivilDate {
	return JulianDayToCivil(d.JulianDay() + n)
}

// FirstOfMonth returns the 1st of the date's Gregorian month.
func (d CivilDate) FirstOfMonth() CivilDate {
	return CivilDate{Year: d.Year, Month: d.Month, Day: 1}
}

// Before reports whether d is strictly earlier than o.
func (d CivilDate) Before(o CivilDate) bool {
	return d.JulianDay() < o.JulianDay()
}

// Time returns midnight UTC on the date.
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// IsGregorianLeapYear reports whether year has a February 29th.
func IsGregorianLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInGregorianMonth returns the length of a 1-indexed Gregorian month.
func DaysInGregorianMonth(year, month int) int {
	switch month {
	case 2:
		if IsGregorianLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod is the remainder matching floorDiv; the result has b's sign.
func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
