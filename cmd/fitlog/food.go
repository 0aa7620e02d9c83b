// ABOUTME: CLI commands for managing the food catalog.
// ABOUTME: Supports add, list, show (with per-unit conversions), and delete subcommands.
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
	foodServing   string
	foodQty       float64
	foodNutrients models.Nutrients
	foodCalories  int
	foodLimit     int
)

var foodCmd = &cobra.Command{
	Use:     "food",
	Aliases: []string{"f"},
	Short:   "Manage the food catalog",
	Long: `Manage the foods you can log.

Each food stores its nutrients for a reference serving: --qty units of
--serving. "Peanut Butter" with --serving tbsp --qty 2 --calories 190 means
190 kcal per 2 tablespoons.

COMMANDS:

  add      Add a food to the catalog
  list     List catalog foods
  show     Show a food's reference nutrients and per-unit calories
  delete   Delete a food no log entry uses`,
}

var foodAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a food",
	Long: `Add a food to the catalog.

Examples:
  fitlog food add Pizza --serving slice --calories 285 --protein 12.2
  fitlog food add "Brown Rice" --serving cup --calories 200 --carbs 44
  fitlog food add "Peanut Butter" --serving tbsp --qty 2 --calories 190 --fat 16`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := models.ParseServingType(foodServing)
		if err != nil {
			return err
		}

		n := foodNutrients
		n.Calories = float64(foodCalories)
		f := models.NewFood(args[0], st, foodQty).WithNutrients(n)

		if err := repo.CreateFood(f); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return fmt.Errorf("a food named %q already exists", f.Name)
			}
			return fmt.Errorf("failed to add food: %w", err)
		}

		color.Green("✓ Added %s", f.Name)
		fmt.Printf("  %s %d kcal per %s\n",
			color.New(color.Faint).Sprint(shortID(f.ID)),
			f.Calories, formatQty(f.ServingTypeQty, f.DefaultServingType))

		if f.ReferenceIsZero() {
			color.Yellow("⚠ Reference serving is zero; logged amounts will scale to 0")
		}
		return nil
	},
}

var foodListCmd = &cobra.Command{
	Use:     "list [search]",
	Aliases: []string{"ls"},
	Short:   "List foods",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		search := ""
		if len(args) == 1 {
			search = args[0]
		}

		foods, err := repo.ListFoods(search, foodLimit)
		if err != nil {
			return fmt.Errorf("failed to list foods: %w", err)
		}

		if len(foods) == 0 {
			fmt.Println("No foods found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, f := range foods {
			fmt.Printf("%s %s %5d kcal per %s\n",
				faint.Sprint(shortID(f.ID)),
				padRight(truncate(f.Name, 24), 24),
				f.Calories,
				formatQty(f.ServingTypeQty, f.DefaultServingType))
		}
		return nil
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <name|id>",
	Short: "Show a food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := storage.ResolveFood(repo, args[0])
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)

		bold.Printf("%s ", f.Name)
		faint.Printf("(%s)\n", f.ID)
		fmt.Printf("Per %s:\n", formatQty(f.ServingTypeQty, f.DefaultServingType))
		fmt.Printf("  Calories       %d\n", f.Calories)
		fmt.Printf("  Fat            %.1f g\n", f.Fat)
		fmt.Printf("  Saturated fat  %.1f g\n", f.SaturatedFat)
		fmt.Printf("  Sodium         %.0f mg\n", f.Sodium)
		fmt.Printf("  Carbs          %.1f g\n", f.Carbs)
		fmt.Printf("  Fiber          %.1f g\n", f.Fiber)
		fmt.Printf("  Sugar          %.1f g\n", f.Sugar)
		fmt.Printf("  Protein        %.1f g\n", f.Protein)
		fmt.Printf("  Points         %.1f\n", f.Points)

		fmt.Println("Calories per 1:")
		for _, st := range models.DefaultServingWeights.Types() {
			ratio := models.ScaleRatio(st, 1, *f)
			if ratio == 0 {
				continue
			}
			fmt.Printf("  %s %d\n", padRight(string(st), 14), int(float64(f.Calories)*ratio))
		}
		return nil
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:     "delete <name|id>",
	Aliases: []string{"rm"},
	Short:   "Delete a food",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := storage.ResolveFood(repo, args[0])
		if err != nil {
			return err
		}

		if err := repo.DeleteFood(f.ID.String()); err != nil {
			if errors.Is(err, storage.ErrInUse) {
				return fmt.Errorf("%s is used by log entries; delete those first", f.Name)
			}
			return fmt.Errorf("failed to delete food: %w", err)
		}

		color.Yellow("✗ Deleted %s", f.Name)
		return nil
	},
}

func init() {
	foodAddCmd.Flags().StringVarP(&foodServing, "serving", "s", "", "reference serving unit (required)")
	foodAddCmd.Flags().Float64VarP(&foodQty, "qty", "q", 1, "number of reference units the values describe")
	foodAddCmd.Flags().IntVarP(&foodCalories, "calories", "c", 0, "calories")
	foodAddCmd.Flags().Float64Var(&foodNutrients.Fat, "fat", 0, "fat (g)")
	foodAddCmd.Flags().Float64Var(&foodNutrients.SaturatedFat, "sat-fat", 0, "saturated fat (g)")
	foodAddCmd.Flags().Float64Var(&foodNutrients.Sodium, "sodium", 0, "sodium (mg)")
	foodAddCmd.Flags().Float64Var(&foodNutrients.Carbs, "carbs", 0, "carbohydrates (g)")
	foodAddCmd.Flags().Float64Var(&foodNutrients.Fiber, "fiber", 0, "fiber (g)")
	foodAddCmd.Flags().Float64Var(&foodNutrients.Sugar, "sugar", 0, "sugar (g)")
	foodAddCmd.Flags().Float64Var(&foodNutrients.Protein, "protein", 0, "protein (g)")
	foodAddCmd.Flags().Float64Var(&foodNutrients.Points, "points", 0, "diet points")
	_ = foodAddCmd.MarkFlagRequired("serving")

	foodListCmd.Flags().IntVarP(&foodLimit, "limit", "n", 0, "max number of results (0 for all)")

	foodCmd.AddCommand(foodAddCmd)
	foodCmd.AddCommand(foodListCmd)
	foodCmd.AddCommand(foodShowCmd)
	foodCmd.AddCommand(foodDeleteCmd)
	rootCmd.AddCommand(foodCmd)
}
