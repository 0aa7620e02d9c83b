// ABOUTME: CLI command for loading a food and exercise catalog file.
// ABOUTME: Reads YAML or JSON and adds entries not yet present; unit warnings go to the logger.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Bulk-manage the catalog",
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load foods and exercises from a YAML or JSON file",
	Long: `Load catalog entries from a file. Entries whose name already exists are skipped.

FILE FORMAT (YAML):

  foods:
    - name: Pizza
      serving: slice
      serving_qty: 1
      calories: 285
      protein: 12.2
  exercises:
    - name: Running
      category: cardio

Examples:
  fitlog catalog load foods.yaml
  fitlog catalog load foods.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(args[0])
		if err != nil {
			return err
		}

		result, err := catalog.Apply(repo, cat, logger)
		if err != nil {
			return err
		}

		color.Green("✓ Loaded %s", args[0])
		fmt.Printf("  Foods added:     %d\n", result.FoodsAdded)
		fmt.Printf("  Exercises added: %d\n", result.ExercisesAdded)
		fmt.Printf("  Already present: %d\n", result.Skipped)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogLoadCmd)
	rootCmd.AddCommand(catalogCmd)
}
