// ABOUTME: CLI commands for logging food eaten and exercise performed.
// ABOUTME: Resolves catalog entries by name or ID and scales nutrients to the logged serving.
package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	logDate  string
	logMerge bool
)

var eatCmd = &cobra.Command{
	Use:     "eat <food> <qty> [unit]",
	Aliases: []string{"e"},
	Short:   "Log food eaten",
	Long: `Log a serving of a catalog food. The unit defaults to the food's reference unit.

A user can log each food once per day. Logging it again fails unless --merge is
given, which adds the new serving to the existing entry (converting units when
both are convertible).

Examples:
  fitlog eat pizza 2                      # 2 slices
  fitlog eat "brown rice" 4 oz            # 4 ounces of a food defined per cup
  fitlog eat "brown rice" 0.5 --merge     # add half a cup to today's entry
  fitlog eat pizza 1 --date yesterday`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		food, err := storage.ResolveFood(repo, args[0])
		if err != nil {
			return err
		}

		qty, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid quantity: %s", args[1])
		}

		st := food.DefaultServingType
		if len(args) == 3 {
			if st, err = models.ParseServingType(args[2]); err != nil {
				return err
			}
		}

		date, err := parseDate(logDate)
		if err != nil {
			return err
		}

		fe, merged, err := storage.LogFood(repo, currentUser(), *food, date, st, qty, logMerge)
		if err != nil {
			if errors.Is(err, models.ErrDuplicate) {
				return fmt.Errorf("%w\nUse --merge to add to the existing entry, or 'fitlog edit' to change it", err)
			}
			return fmt.Errorf("failed to log food: %w", err)
		}

		if merged {
			color.Green("✓ Added to %s on %s", food.Name, date)
		} else {
			color.Green("✓ Logged %s on %s", food.Name, date)
		}
		fmt.Fprint(cmd.OutOrStdout(), "  ")
		printFoodEntry(cmd.OutOrStdout(), fe)

		if st != food.DefaultServingType && !(st.Convertible() && food.DefaultServingType.Convertible()) {
			color.Yellow("⚠ %s does not convert to %s; nutrients scale to 0", food.DefaultServingType, st)
		}
		return nil
	},
}

var didCmd = &cobra.Command{
	Use:     "did <exercise> <minutes>",
	Aliases: []string{"d"},
	Short:   "Log exercise performed",
	Long: `Log minutes of a catalog exercise.

Examples:
  fitlog did running 30
  fitlog did yoga 45 --date 2024-03-01
  fitlog did running 15 --merge           # add 15 minutes to today's run`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exercise, err := storage.ResolveExercise(repo, args[0])
		if err != nil {
			return err
		}

		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid minutes: %s", args[1])
		}

		date, err := parseDate(logDate)
		if err != nil {
			return err
		}

		ep, merged, err := storage.LogExercise(repo, currentUser(), *exercise, date, minutes, logMerge)
		if err != nil {
			if errors.Is(err, models.ErrDuplicate) {
				return fmt.Errorf("%w\nUse --merge to add to the existing entry, or 'fitlog edit' to change it", err)
			}
			return fmt.Errorf("failed to log exercise: %w", err)
		}

		if merged {
			color.Green("✓ Added to %s on %s", exercise.Name, date)
		} else {
			color.Green("✓ Logged %s on %s", exercise.Name, date)
		}
		fmt.Fprint(cmd.OutOrStdout(), "  ")
		printExerciseEntry(cmd.OutOrStdout(), ep)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{eatCmd, didCmd} {
		c.Flags().StringVar(&logDate, "date", "", "day (YYYY-MM-DD, today, yesterday, -N); default today")
		c.Flags().BoolVar(&logMerge, "merge", false, "add to an existing entry for the same day")
		rootCmd.AddCommand(c)
	}
}
