// ABOUTME: Shared parsing and formatting helpers for CLI output.
// ABOUTME: Parses day arguments and renders entries, days, and nutrient totals.
package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/report"
)

// parseDate accepts today, yesterday, a relative -N days, YYYY-MM-DD, or RFC3339.
func parseDate(s string) (models.Date, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "today":
		return models.Today(), nil
	case "yesterday":
		return models.Today().AddDays(-1), nil
	}

	if strings.HasPrefix(s, "-") {
		var n int
		if _, err := fmt.Sscanf(s, "-%d", &n); err == nil && n >= 0 {
			return models.Today().AddDays(-n), nil
		}
	}

	if d, err := models.ParseDate(s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, strings.ToUpper(s)); err == nil {
		return models.NewDate(t), nil
	}
	return models.Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD, today, yesterday, or -N)", s)
}

func shortID(id fmt.Stringer) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func formatQty(qty float64, st models.ServingType) string {
	return fmt.Sprintf("%g %s", qty, st)
}

func printFoodEntry(w io.Writer, fe *models.FoodEaten) {
	faint := color.New(color.Faint)
	fmt.Fprintf(w, "%s %s %s %5d kcal  %s\n",
		faint.Sprint(shortID(fe.ID())),
		padRight(truncate(fe.Food().Name, 24), 24),
		padRight(formatQty(fe.ServingQty(), fe.ServingType()), 16),
		fe.Calories(),
		faint.Sprintf("%.1fg protein, %.1fg carbs, %.1fg fat", fe.Protein(), fe.Carbs(), fe.Fat()))
}

func printExerciseEntry(w io.Writer, ep *models.ExercisePerformed) {
	faint := color.New(color.Faint)
	fmt.Fprintf(w, "%s %s %d min\n",
		faint.Sprint(shortID(ep.ID())),
		padRight(truncate(ep.Exercise().Name, 24), 24),
		ep.Minutes())
}

func printTotals(w io.Writer, label string, n models.Nutrients, minutes int) {
	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s %d kcal, %.1fg protein, %.1fg carbs, %.1fg fat, %.1f points",
		bold.Sprint(label), int(n.Calories), n.Protein, n.Carbs, n.Fat, n.Points)
	if minutes > 0 {
		fmt.Fprintf(w, ", %d min exercise", minutes)
	}
	fmt.Fprintln(w)
}

// printDay renders one day for user. A nil day prints an empty-day notice.
func printDay(w io.Writer, user models.UserID, date models.Date, d *report.Day) {
	color.New(color.Bold).Fprintf(w, "%s (%s)\n", date, user)

	if d == nil {
		fmt.Fprintln(w, "  Nothing logged.")
		return
	}

	if len(d.Foods) > 0 {
		fmt.Fprintln(w, "Food:")
		for _, fe := range d.Foods {
			fmt.Fprint(w, "  ")
			printFoodEntry(w, fe)
		}
	}
	if len(d.Exercises) > 0 {
		fmt.Fprintln(w, "Exercise:")
		for _, ep := range d.Exercises {
			fmt.Fprint(w, "  ")
			printExerciseEntry(w, ep)
		}
	}
	printTotals(w, "Total:", d.Nutrients, d.Minutes)
}
