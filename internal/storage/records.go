// ABOUTME: Flat, serializable forms of log records for export and KV storage.
// ABOUTME: Records reference catalog entries by ID and are resolved back through the core constructors.
package storage

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

// FoodEatenRecord is the stored shape of a models.FoodEaten.
type FoodEatenRecord struct {
	ID          uuid.UUID          `json:"id" yaml:"id"`
	UserID      models.UserID      `json:"user_id" yaml:"user_id"`
	FoodID      uuid.UUID          `json:"food_id" yaml:"food_id"`
	Date        models.Date        `json:"date" yaml:"date"`
	ServingType models.ServingType `json:"serving_type" yaml:"serving_type"`
	ServingQty  float64            `json:"serving_qty" yaml:"serving_qty"`
}

// NewFoodEatenRecord flattens fe.
func NewFoodEatenRecord(fe *models.FoodEaten) FoodEatenRecord {
	return FoodEatenRecord{
		ID:          fe.ID(),
		UserID:      fe.User(),
		FoodID:      fe.Food().ID,
		Date:        fe.Date(),
		ServingType: fe.ServingType(),
		ServingQty:  fe.ServingQty(),
	}
}

// Key returns the uniqueness key the record will have once resolved.
func (r FoodEatenRecord) Key() models.LogKey {
	return models.LogKey{Kind: models.KindFood, User: r.UserID, Entity: r.FoodID, Date: r.Date}
}

// Resolve rebuilds the record around its food reference.
func (r FoodEatenRecord) Resolve(food models.Food) (*models.FoodEaten, error) {
	if food.ID != r.FoodID {
		return nil, fmt.Errorf("food %s does not match record food %s", food.ID, r.FoodID)
	}
	return models.NewFoodEaten(models.UseID(r.ID), r.UserID, food, r.Date, r.ServingType, r.ServingQty)
}

// ExercisePerformedRecord is the stored shape of a models.ExercisePerformed.
type ExercisePerformedRecord struct {
	ID         uuid.UUID     `json:"id" yaml:"id"`
	UserID     models.UserID `json:"user_id" yaml:"user_id"`
	ExerciseID uuid.UUID     `json:"exercise_id" yaml:"exercise_id"`
	Date       models.Date   `json:"date" yaml:"date"`
	Minutes    int           `json:"minutes" yaml:"minutes"`
}

// NewExercisePerformedRecord flattens ep.
func NewExercisePerformedRecord(ep *models.ExercisePerformed) ExercisePerformedRecord {
	return ExercisePerformedRecord{
		ID:         ep.ID(),
		UserID:     ep.User(),
		ExerciseID: ep.Exercise().ID,
		Date:       ep.Date(),
		Minutes:    ep.Minutes(),
	}
}

// Key returns the uniqueness key the record will have once resolved.
func (r ExercisePerformedRecord) Key() models.LogKey {
	return models.LogKey{Kind: models.KindExercise, User: r.UserID, Entity: r.ExerciseID, Date: r.Date}
}

// Resolve rebuilds the record around its exercise reference.
func (r ExercisePerformedRecord) Resolve(exercise models.Exercise) (*models.ExercisePerformed, error) {
	if exercise.ID != r.ExerciseID {
		return nil, fmt.Errorf("exercise %s does not match record exercise %s", exercise.ID, r.ExerciseID)
	}
	return models.NewExercisePerformed(models.UseID(r.ID), r.UserID, exercise, r.Date, r.Minutes)
}
