package calendar

import (
	"testing"

	"github.com/keyxmakerx/campuscal/internal/dates"
)

func TestNext_GregorianRollsOverYear(t *testing.T) {
	tests := []struct {
		ref  dates.CivilDate
		want dates.CivilDate
	}{
		{day(2025, 2, 15), day(2025, 3, 1)},
		{day(2025, 12, 31), day(2026, 1, 1)},
		{day(2024, 1, 31), day(2024, 2, 1)},
	}
	for _, tt := range tests {
		if got := Next(tt.ref, ModeGregorian); got != tt.want {
			t.Errorf("Next(%s) = %s, want %s", tt.ref, got, tt.want)
		}
	}
}

func TestPrevious_GregorianRollsBackYear(t *testing.T) {
	if got := Previous(day(2025, 1, 20), ModeGregorian); got != day(2024, 12, 1) {
		t.Errorf("Previous(2025-01-20) = %s, want 2024-12-01", got)
	}
	if got := Previous(day(2025, 3, 31), ModeBoth); got != day(2025, 2, 1) {
		t.Errorf("Previous(2025-03-31, both) = %s, want 2025-02-01", got)
	}
}

func TestNext_TwelveStepsIsOneYear(t *testing.T) {
	for _, mode := range []Mode{ModeGregorian, ModeBoth} {
		ref := day(2025, 2, 15)
		for i := 0; i < 12; i++ {
			ref = Next(ref, mode)
		}
		if ref != day(2026, 2, 1) {
			t.Errorf("%s: 12 x next from 2025-02-15 = %s, want 2026-02-01", mode, ref)
		}
	}

	ref := day(2025, 2, 15) // Sha'ban 1446
	for i := 0; i < 12; i++ {
		ref = Next(ref, ModeHijri)
	}
	h := dates.GregorianToHijri(ref)
	if h != (dates.HijriDate{Year: 1447, Month: 7, Day: 1}) {
		t.Errorf("hijri: 12 x next = %s, want 1 Sha'ban 1447", h)
	}
}

func TestNext_HijriStepsByMonthLength(t *testing.T) {
	ref := dates.HijriToGregorian(1440, 0, 1)
	for i := 0; i < 240; i++ {
		h := dates.GregorianToHijri(ref)
		n := dates.DaysInHijriMonth(h.Year, h.Month)
		next := Next(ref, ModeHijri)
		if got := next.JulianDay() - ref.JulianDay(); got != n {
			t.Fatalf("%s: stepped %d days, want %d", h, got, n)
		}
		if n != 29 && n != 30 {
			t.Fatalf("%s: month length %d", h, n)
		}
		ref = next
	}
}

func TestNavigation_MonotonicAndReversible(t *testing.T) {
	for _, mode := range []Mode{ModeGregorian, ModeHijri, ModeBoth} {
		ref := day(1999, 7, 19)
		for i := 0; i < 600; i++ {
			next := Next(ref, mode)
			if next.JulianDay() <= ref.JulianDay() {
				t.Fatalf("%s: Next(%s) = %s did not advance", mode, ref, next)
			}
			if SameMonth(ref, next, mode) {
				t.Fatalf("%s: Next(%s) = %s stayed in the same month", mode, ref, next)
			}
			back := Previous(next, mode)
			if !SameMonth(back, ref, mode) {
				t.Fatalf("%s: Previous(Next(%s)) = %s left the month", mode, ref, back)
			}
			ref = next
		}
	}
}

func TestSameMonth(t *testing.T) {
	if !SameMonth(day(2025, 2, 1), day(2025, 2, 28), ModeGregorian) {
		t.Error("Feb 1 and Feb 28 should share a Gregorian month")
	}
	// Sha'ban 1446 runs 2025-01-31 to 2025-02-28.
	if !SameMonth(day(2025, 1, 31), day(2025, 2, 28), ModeHijri) {
		t.Error("Jan 31 and Feb 28 2025 should share a Hijri month")
	}
	if SameMonth(day(2025, 1, 30), day(2025, 1, 31), ModeHijri) {
		t.Error("Jan 30 and Jan 31 2025 are in different Hijri months")
	}
}

func TestSession_NavigationAndTitle(t *testing.T) {
	s := &Session{Reference: day(2025, 2, 1), Mode: ModeBoth, Lang: LangEnglish}
	if got := s.Title(); got != "February 2025" {
		t.Errorf("title = %q", got)
	}
	s.Next()
	if s.Reference != day(2025, 3, 1) {
		t.Errorf("after next: %s", s.Reference)
	}
	s.SetMode(ModeHijri)
	if got := s.Title(); got != "Ramadan 1446" {
		t.Errorf("hijri title = %q", got)
	}
	s.Previous()
	if got := s.Title(); got != "Sha'ban 1446" {
		t.Errorf("after previous: %q", got)
	}
	s.GoTo(day(2030, 6, 6))
	if s.Reference != day(2030, 6, 6) {
		t.Errorf("after goto: %s", s.Reference)
	}
}
