// ABOUTME: CLI command for copying all data between storage backends.
// ABOUTME: Moves the catalog and both logs from the active backend to the other one.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all data to another storage backend",
	Long: `Copy every food, exercise, and log entry from the active backend to another.

The destination must be empty. Records keep their IDs. After migrating, set
"backend" in ~/.config/fitlog/config.json (or pass --backend) to switch.

USAGE:

  fitlog migrate --to charm --dry-run    # Preview what would be copied
  fitlog migrate --to charm              # SQLite -> Charm KV
  fitlog --backend charm migrate --to sqlite`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo == cfg.GetBackend() {
			return fmt.Errorf("already using the %s backend", migrateTo)
		}

		src, err := storage.GetAllData(repo)
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Printf("Would copy from %s to %s:\n", cfg.GetBackend(), migrateTo)
			printCounts(len(src.Foods), len(src.Exercises), len(src.FoodEaten), len(src.ExercisePerformed))
			return nil
		}

		dst, err := config.OpenBackend(migrateTo, cfg.GetDataDir())
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", migrateTo, err)
		}
		defer func() { _ = dst.Close() }()

		existing, err := storage.GetAllData(dst)
		if err != nil {
			return fmt.Errorf("failed to read destination: %w", err)
		}
		if n := len(existing.Foods) + len(existing.Exercises) + len(existing.FoodEaten) + len(existing.ExercisePerformed); n > 0 {
			return fmt.Errorf("%s storage already holds %d records; migrate only into an empty backend", migrateTo, n)
		}

		summary, err := storage.MigrateData(repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s -> %s", cfg.GetBackend(), migrateTo)
		printCounts(summary.Foods, summary.Exercises, summary.FoodEaten, summary.ExercisePerformed)
		return nil
	},
}

func printCounts(foods, exercises, foodEaten, exercisePerformed int) {
	fmt.Printf("  Foods:            %d\n", foods)
	fmt.Printf("  Exercises:        %d\n", exercises)
	fmt.Printf("  Food entries:     %d\n", foodEaten)
	fmt.Printf("  Exercise entries: %d\n", exercisePerformed)
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or charm")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
