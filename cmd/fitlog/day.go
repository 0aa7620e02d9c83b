// ABOUTME: CLI commands for viewing a day's log and multi-day reports.
// ABOUTME: Totals come from the records' scaled nutrients, summed per day.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/report"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	reportFrom string
	reportTo   string
	reportDays int
)

var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show one day's entries and totals",
	Long: `Show everything logged on a day with nutrient totals.

Examples:
  fitlog day                   # today
  fitlog day yesterday
  fitlog day 2024-03-01
  fitlog day -u kim            # another user's day`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		date, err := parseDate(arg)
		if err != nil {
			return err
		}

		user := currentUser()
		r, err := loadReport(user, date, date)
		if err != nil {
			return err
		}

		var d *report.Day
		if len(r.Days) > 0 {
			d = r.Days[0]
		}
		printDay(cmd.OutOrStdout(), user, date, d)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show per-day totals and averages over a date range",
	Long: `Show per-day calorie and nutrient totals over a date range, with range
totals and daily averages. Days with nothing logged count toward the average.

Examples:
  fitlog report                                # last 7 days
  fitlog report --days 30
  fitlog report --from 2024-03-01 --to 2024-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportDays < 1 {
			return fmt.Errorf("--days must be at least 1")
		}
		to, err := parseDate(reportTo)
		if err != nil {
			return err
		}
		from := to.AddDays(-(reportDays - 1))
		if reportFrom != "" {
			if from, err = parseDate(reportFrom); err != nil {
				return err
			}
		}
		if to.Before(from) {
			return fmt.Errorf("--to %s is before --from %s", to, from)
		}

		user := currentUser()
		r, err := loadReport(user, from, to)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		color.New(color.Bold).Fprintf(w, "%s to %s (%s)\n", from, to, user)
		if len(r.Days) == 0 {
			fmt.Fprintln(w, "  Nothing logged.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, d := range r.Days {
			fmt.Fprintf(w, "%s %5d kcal  %s\n",
				d.Date,
				int(d.Nutrients.Calories),
				faint.Sprintf("%.1fg protein, %.1fg carbs, %.1fg fat, %d min", d.Nutrients.Protein, d.Nutrients.Carbs, d.Nutrients.Fat, d.Minutes))
		}
		fmt.Fprintln(w)
		printTotals(w, "Total:", r.Total, r.Minutes)
		printTotals(w, fmt.Sprintf("Daily average (%d days):", r.DayCount()), r.Average(), 0)
		return nil
	},
}

func loadReport(user models.UserID, from, to models.Date) (*report.Report, error) {
	filter := storage.LogFilter{User: user, From: from, To: to}

	foods, err := repo.ListFoodEaten(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list food log: %w", err)
	}
	exercises, err := repo.ListExercisePerformed(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise log: %w", err)
	}
	return report.Summarize(user, from, to, foods, exercises), nil
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first day (default: --days before --to)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last day (default today)")
	reportCmd.Flags().IntVar(&reportDays, "days", 7, "range length when --from is not given")

	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(reportCmd)
}
