package calendar

import (
	"context"
	"fmt"

	"github.com/keyxmakerx/campuscal/internal/dates"
)

// EventLookup is the read side of the event store used while building grids.
type EventLookup interface {
	ListFor(ctx context.Context, dateKey string) ([]Event, error)
}

// BuildGrid lays out the month containing ref in the given mode. The result
// always has LeadingBlanks+DaysInMonth cells, and each day cell carries the
// events stored under its civil date. A nil lookup yields cells without
// events.
func BuildGrid(ctx context.Context, ref dates.CivilDate, mode Mode, lookup EventLookup) (*Grid, error) {
	var grid *Grid
	switch mode {
	case ModeGregorian, ModeBoth:
		grid = gregorianLayout(ref, mode == ModeBoth)
	case ModeHijri:
		grid = hijriLayout(ref)
	default:
		return nil, fmt.Errorf("build grid: unknown mode %q", mode)
	}
	grid.Mode = mode
	grid.Reference = ref.Key()

	if lookup == nil {
		return grid, nil
	}
	for i := grid.LeadingBlanks; i < len(grid.Cells); i++ {
		events, err := lookup.ListFor(ctx, grid.Cells[i].Date)
		if err != nil {
			return nil, fmt.Errorf("list events for %s: %w", grid.Cells[i].Date, err)
		}
		grid.Cells[i].Events = events
	}
	return grid, nil
}

// gregorianLayout builds the cells of ref's Gregorian month. When labelled is
// set each cell also carries its Hijri date.
func gregorianLayout(ref dates.CivilDate, labelled bool) *Grid {
	first := ref.FirstOfMonth()
	n := dates.DaysInGregorianMonth(first.Year, first.Month)
	blanks := first.Weekday()

	grid := &Grid{
		Year:          first.Year,
		MonthIndex:    first.Month - 1,
		LeadingBlanks: blanks,
		DaysInMonth:   n,
		Cells:         padding(blanks, n),
	}
	for day := 1; day <= n; day++ {
		civil := dates.NewCivilDate(first.Year, first.Month, day)
		cell := Cell{
			Day:     day,
			Date:    civil.Key(),
			Weekday: (blanks + day - 1) % 7,
		}
		if labelled {
			h := dates.GregorianToHijri(civil)
			cell.Secondary = &SecondaryLabel{Year: h.Year, Month: h.Month, Day: h.Day}
		}
		grid.Cells = append(grid.Cells, cell)
	}
	return grid
}

// hijriLayout builds the cells of the Hijri month containing ref. Day numbers
// are Hijri days; each cell's Date is still the Gregorian key.
func hijriLayout(ref dates.CivilDate) *Grid {
	h := dates.GregorianToHijri(ref)
	n := dates.DaysInHijriMonth(h.Year, h.Month)
	blanks := dates.HijriToGregorian(h.Year, h.Month, 1).Weekday()

	grid := &Grid{
		Year:          h.Year,
		MonthIndex:    h.Month,
		LeadingBlanks: blanks,
		DaysInMonth:   n,
		Cells:         padding(blanks, n),
	}
	for day := 1; day <= n; day++ {
		civil := dates.HijriToGregorian(h.Year, h.Month, day)
		grid.Cells = append(grid.Cells, Cell{
			Day:     day,
			Date:    civil.Key(),
			Weekday: (blanks + day - 1) % 7,
		})
	}
	return grid
}

// padding returns the leading blank cells with room for n day cells.
func padding(blanks, n int) []Cell {
	cells := make([]Cell, 0, blanks+n)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Blank: true, Weekday: i})
	}
	return cells
}

// markToday flags the cell whose civil date is today, if any.
func markToday(grid *Grid, today dates.CivilDate) {
	key := today.Key()
	for i := grid.LeadingBlanks; i < len(grid.Cells); i++ {
		if grid.Cells[i].Date == key {
			grid.Cells[i].IsToday = true
			return
		}
	}
}
