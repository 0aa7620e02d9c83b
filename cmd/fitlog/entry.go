// ABOUTME: CLI commands for editing and deleting logged entries.
// ABOUTME: Accepts a food or exercise entry ID (or prefix) as shown by 'fitlog day'.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	editQty     float64
	editUnit    string
	editMinutes int
	editDate    string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a logged entry",
	Long: `Change the serving, minutes, or day of a logged entry.

Only the flags you pass are changed. Moving an entry onto a day that already
has the same food (or exercise) for that user fails.

Examples:
  fitlog edit abc12345 --qty 3
  fitlog edit abc12345 --qty 6 --unit oz
  fitlog edit def67890 --minutes 45
  fitlog edit abc12345 --date yesterday`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var change storage.EntryChange
		flags := cmd.Flags()

		if flags.Changed("qty") {
			change.Qty = &editQty
		}
		if flags.Changed("unit") {
			st, err := models.ParseServingType(editUnit)
			if err != nil {
				return err
			}
			change.ServingType = &st
		}
		if flags.Changed("minutes") {
			change.Minutes = &editMinutes
		}
		if flags.Changed("date") {
			d, err := parseDate(editDate)
			if err != nil {
				return err
			}
			change.Date = &d
		}
		if change == (storage.EntryChange{}) {
			return fmt.Errorf("nothing to change: pass --qty, --unit, --minutes, or --date")
		}

		entry, err := storage.UpdateEntry(repo, args[0], change)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		color.Green("✓ Updated")
		fmt.Fprint(cmd.OutOrStdout(), "  ")
		printEntry(cmd, entry)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a logged entry",
	Long: `Delete a logged food or exercise entry by its ID or ID prefix.

The ID prefix is shown in the first column of 'fitlog day' output. If the
prefix matches multiple entries, an error is returned.

CAUTION:

  This permanently deletes the entry. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Look the entry up first to show what we're deleting
		entry, err := storage.GetEntry(repo, args[0])
		if err != nil {
			return err
		}

		var id string
		switch entry.Kind {
		case storage.EntryFood:
			id = entry.Food.ID().String()
		default:
			id = entry.Exercise.ID().String()
		}
		if _, err := storage.DeleteEntry(repo, id); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		color.Yellow("✗ Deleted")
		fmt.Fprint(cmd.OutOrStdout(), "  ")
		printEntry(cmd, entry)
		return nil
	},
}

func printEntry(cmd *cobra.Command, entry *storage.Entry) {
	switch entry.Kind {
	case storage.EntryFood:
		printFoodEntry(cmd.OutOrStdout(), entry.Food)
	default:
		printExerciseEntry(cmd.OutOrStdout(), entry.Exercise)
	}
}

func init() {
	editCmd.Flags().Float64VarP(&editQty, "qty", "q", 0, "new quantity (food)")
	editCmd.Flags().StringVar(&editUnit, "unit", "", "new serving unit (food)")
	editCmd.Flags().IntVarP(&editMinutes, "minutes", "m", 0, "new minutes (exercise)")
	editCmd.Flags().StringVar(&editDate, "date", "", "new day")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}
