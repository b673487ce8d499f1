package dates

// Offsets of the integer Julian Day algorithm. The 4800-year shift keeps every
// intermediate non-negative for dates after 4801 BCE; 32045 aligns day 0 with
// the Julian Day epoch.
const (
	jdnYearShift = 4800
	jdnEpoch     = 32045
)

// CivilToJulianDay returns the Julian Day Number of a proleptic Gregorian
// date. The months are counted from March so the leap day falls at the end of
// the computational year. Out-of-range months or days are not rejected.
func CivilToJulianDay(year, month, day int) int {
	a := floorDiv(14-month, 12)
	y := year + jdnYearShift - a
	m := month + 12*a - 3
	return day + floorDiv(153*m+2, 5) + 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - jdnEpoch
}

// JulianDayToCivil is the exact inverse of CivilToJulianDay.
func JulianDayToCivil(jdn int) CivilDate {
	a := jdn + jdnEpoch - 1
	b := floorDiv(4*a+3, 146097)
	c := a - floorDiv(146097*b, 4)
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)

	return CivilDate{
		Year:  100*b + d - jdnYearShift + floorDiv(m, 10),
		Month: m + 3 - 12*floorDiv(m, 10),
		Day:   e - floorDiv(153*m+2, 5) + 1,
	}
}
