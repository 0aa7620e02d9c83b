// ABOUTME: Data migration between fitlog storage backends.
// ABOUTME: Copies the catalog first, then both logs, from source to destination.

package storage

import "fmt"

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Foods             int
	Exercises         int
	FoodEaten         int
	ExercisePerformed int
}

// MigrateData copies all data from src to dst storage. Catalog entries go
// first so every log record finds its reference in the destination. The
// destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	foods, err := src.ListFoods("", 0)
	if err != nil {
		return nil, fmt.Errorf("list source foods: %w", err)
	}
	for _, f := range foods {
		if err := dst.CreateFood(f); err != nil {
			return nil, fmt.Errorf("create food %s: %w", f.ID, err)
		}
		summary.Foods++
	}

	exercises, err := src.ListExercises("", 0)
	if err != nil {
		return nil, fmt.Errorf("list source exercises: %w", err)
	}
	for _, e := range exercises {
		if err := dst.CreateExercise(e); err != nil {
			return nil, fmt.Errorf("create exercise %s: %w", e.ID, err)
		}
		summary.Exercises++
	}

	eaten, err := src.ListFoodEaten(LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("list source food eaten: %w", err)
	}
	for _, fe := range eaten {
		if err := dst.CreateFoodEaten(fe); err != nil {
			return nil, fmt.Errorf("create food eaten %s: %w", fe.ID(), err)
		}
		summary.FoodEaten++
	}

	performed, err := src.ListExercisePerformed(LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("list source exercise performed: %w", err)
	}
	for _, ep := range performed {
		if err := dst.CreateExercisePerformed(ep); err != nil {
			return nil, fmt.Errorf("create exercise performed %s: %w", ep.ID(), err)
		}
		summary.ExercisePerformed++
	}

	return summary, nil
}
