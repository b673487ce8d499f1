// Package commands holds the cobra commands of the hijri CLI. Every command
// writes to cmd.OutOrStdout so tests can capture the output.
package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/campuscal/internal/dates"
	"github.com/keyxmakerx/campuscal/internal/plugins/calendar"
)

// nowFunc is the clock used when grid gets no date.
var nowFunc = time.Now

// weekdayHeader labels the Sunday-first grid columns.
var weekdayHeader = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// NewRootCommand assembles the CLI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hijri",
		Short:         "Gregorian and tabular Hijri calendar tools",
		Long:          "Convert dates between the Gregorian and the tabular Islamic calendar and print month grids.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("lang", calendar.LangEnglish, "Month-name language (en, ar)")

	root.AddCommand(NewToHijriCommand())
	root.AddCommand(NewToGregorianCommand())
	root.AddCommand(NewGridCommand())
	root.AddCommand(NewMonthLengthCommand())
	return root
}

// NewToHijriCommand converts a Gregorian date.
func NewToHijriCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-hijri YYYY-MM-DD",
		Short: "Convert a Gregorian date to Hijri",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := langFlag(cmd)
			if err != nil {
				return err
			}
			d, err := dates.ParseKey(args[0])
			if err != nil {
				return err
			}
			printConversion(cmd.OutOrStdout(), d, lang)
			return nil
		},
	}
}

// NewToGregorianCommand converts a Hijri date given with a 1-based month.
func NewToGregorianCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-gregorian YEAR MONTH DAY",
		Short: "Convert a Hijri date (month 1-12) to Gregorian",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := langFlag(cmd)
			if err != nil {
				return err
			}
			nums, err := atoiAll(args)
			if err != nil {
				return err
			}
			h := dates.HijriDate{Year: nums[0], Month: nums[1] - 1, Day: nums[2]}
			if !h.Valid() {
				return fmt.Errorf("invalid Hijri date %d-%d-%d", nums[0], nums[1], nums[2])
			}
			d := h.ToCivil()
			if !d.Valid() {
				return fmt.Errorf("%d-%d-%d converts to a date outside Gregorian years 1 to 9999", nums[0], nums[1], nums[2])
			}
			printConversion(cmd.OutOrStdout(), d, lang)
			return nil
		},
	}
}

// NewGridCommand prints the month containing a date.
func NewGridCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid [YYYY-MM-DD]",
		Short: "Print a month grid",
		Long:  "Print the month containing the given date (default: today) in gregorian, hijri or both mode.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := langFlag(cmd)
			if err != nil {
				return err
			}
			modeStr, _ := cmd.Flags().GetString("mode")
			mode, err := calendar.ParseMode(modeStr)
			if err != nil {
				return fmt.Errorf("unknown mode %q", modeStr)
			}

			ref := dates.FromTime(nowFunc())
			if len(args) == 1 {
				if ref, err = dates.ParseKey(args[0]); err != nil {
					return err
				}
			}

			grid, err := calendar.BuildGrid(cmd.Context(), ref, mode, nil)
			if err != nil {
				return err
			}
			printGrid(cmd.OutOrStdout(), grid, lang)
			return nil
		},
	}
	cmd.Flags().String("mode", string(calendar.ModeGregorian), "Calendar mode (gregorian, hijri, both)")
	return cmd
}

// NewMonthLengthCommand prints the number of days in a Hijri month.
func NewMonthLengthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "month-length YEAR MONTH",
		Short: "Print the length of a Hijri month (month 1-12)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := atoiAll(args)
			if err != nil {
				return err
			}
			if nums[0] < 1 || nums[1] < 1 || nums[1] > 12 {
				return fmt.Errorf("invalid Hijri month %d-%d", nums[0], nums[1])
			}
			n := dates.DaysInHijriMonth(nums[0], nums[1]-1)
			leap := ""
			if dates.IsHijriLeapYear(nums[0]) {
				leap = " (leap year)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d%s\n", n, leap)
			return nil
		},
	}
}

func langFlag(cmd *cobra.Command) (string, error) {
	lang, _ := cmd.Flags().GetString("lang")
	lang = strings.ToLower(lang)
	if !calendar.SupportedLang(lang) {
		return "", fmt.Errorf("unsupported language %q", lang)
	}
	return lang, nil
}

func atoiAll(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", a)
		}
		out[i] = n
	}
	return out, nil
}

func printConversion(w io.Writer, d dates.CivilDate, lang string) {
	h := dates.GregorianToHijri(d)
	fmt.Fprintf(w, "Gregorian: %s %s\n", weekdayHeader[d.Weekday()], d.Key())
	fmt.Fprintf(w, "Hijri:     %d %s %d\n", h.Day, calendar.MonthName(calendar.KindHijri, lang, h.Month), h.Year)
	fmt.Fprintf(w, "JDN:       %d\n", d.JulianDay())
}

// printGrid writes the title, a weekday header and one line per week. In
// both mode every cell shows "gregorian/hijri" day numbers.
func printGrid(w io.Writer, g *calendar.Grid, lang string) {
	width := 3
	if g.Mode == calendar.ModeBoth {
		width = 6
	}

	fmt.Fprintln(w, g.Title(lang))
	for i, name := range weekdayHeader {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprintf(w, "%*s", width, name)
	}
	fmt.Fprintln(w)

	for i, cell := range g.Cells {
		if i%7 > 0 {
			fmt.Fprint(w, " ")
		}
		label := ""
		if !cell.Blank {
			label = strconv.Itoa(cell.Day)
			if cell.Secondary != nil {
				label = fmt.Sprintf("%d/%d", cell.Day, cell.Secondary.Day)
			}
		}
		fmt.Fprintf(w, "%*s", width, label)
		if i%7 == 6 || i == len(g.Cells)-1 {
			fmt.Fprintln(w)
		}
	}
}
