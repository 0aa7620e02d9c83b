// ABOUTME: Applies a loaded catalog to a storage backend.
// ABOUTME: Entries already present by name are left untouched.
package catalog

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlog/internal/storage"
)

// ApplyResult counts what Apply wrote.
type ApplyResult struct {
	FoodsAdded     int
	ExercisesAdded int
	Skipped        int
}

// Apply inserts every catalog entry whose name is not yet in repo and logs
// the catalog's warnings.
func Apply(repo storage.Repository, cat *Catalog, logger *log.Logger) (*ApplyResult, error) {
	for _, w := range cat.Warnings {
		logger.Warn("catalog entry", "food", w.Name, "warning", w.Message)
	}

	result := &ApplyResult{}
	for _, food := range cat.Foods {
		_, err := repo.FindFoodByName(food.Name)
		switch {
		case err == nil:
			logger.Debug("food already in catalog", "name", food.Name)
			result.Skipped++
			continue
		case !errors.Is(err, storage.ErrNotFound):
			return result, fmt.Errorf("look up food %q: %w", food.Name, err)
		}
		if err := repo.CreateFood(food); err != nil {
			return result, fmt.Errorf("add food %q: %w", food.Name, err)
		}
		logger.Info("added food", "name", food.Name, "id", food.ID)
		result.FoodsAdded++
	}

	for _, exercise := range cat.Exercises {
		_, err := repo.FindExerciseByName(exercise.Name)
		switch {
		case err == nil:
			logger.Debug("exercise already in catalog", "name", exercise.Name)
			result.Skipped++
			continue
		case !errors.Is(err, storage.ErrNotFound):
			return result, fmt.Errorf("look up exercise %q: %w", exercise.Name, err)
		}
		if err := repo.CreateExercise(exercise); err != nil {
			return result, fmt.Errorf("add exercise %q: %w", exercise.Name, err)
		}
		logger.Info("added exercise", "name", exercise.Name, "id", exercise.ID)
		result.ExercisesAdded++
	}

	return result, nil
}
