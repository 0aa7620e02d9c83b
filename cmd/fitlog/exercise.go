// ABOUTME: CLI commands for managing the exercise catalog.
// ABOUTME: Supports add, list, and delete subcommands.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exerciseCategory string
	exerciseLimit    int
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"x"},
	Short:   "Manage the exercise catalog",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise",
	Long: `Add an exercise type to the catalog.

Examples:
  fitlog exercise add Running --category cardio
  fitlog exercise add Yoga`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := models.NewExercise(args[0]).WithCategory(exerciseCategory)

		if err := repo.CreateExercise(e); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return fmt.Errorf("an exercise named %q already exists", e.Name)
			}
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		color.Green("✓ Added %s", e.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(e.ID)))
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list [search]",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		search := ""
		if len(args) == 1 {
			search = args[0]
		}

		exercises, err := repo.ListExercises(search, exerciseLimit)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range exercises {
			category := ""
			if e.Category != "" {
				category = faint.Sprintf("(%s)", e.Category)
			}
			fmt.Printf("%s %s %s\n", faint.Sprint(shortID(e.ID)), padRight(truncate(e.Name, 24), 24), category)
		}
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <name|id>",
	Aliases: []string{"rm"},
	Short:   "Delete an exercise",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := storage.ResolveExercise(repo, args[0])
		if err != nil {
			return err
		}

		if err := repo.DeleteExercise(e.ID.String()); err != nil {
			if errors.Is(err, storage.ErrInUse) {
				return fmt.Errorf("%s is used by log entries; delete those first", e.Name)
			}
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		color.Yellow("✗ Deleted %s", e.Name)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "category (cardio, strength, ...)")
	exerciseListCmd.Flags().IntVarP(&exerciseLimit, "limit", "n", 0, "max number of results (0 for all)")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
