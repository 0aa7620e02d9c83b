// ABOUTME: Food reference model: a nutrient profile authored per reference serving.
// ABOUTME: Values describe ServingTypeQty units of DefaultServingType, not a single unit.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Food is a catalog entry. Log records treat it as read-only.
type Food struct {
	ID                 uuid.UUID   `json:"id" yaml:"id"`
	Name               string      `json:"name" yaml:"name"`
	DefaultServingType ServingType `json:"default_serving_type" yaml:"default_serving_type"`
	ServingTypeQty     float64     `json:"serving_type_qty" yaml:"serving_type_qty"`
	Calories           int         `json:"calories" yaml:"calories"`
	Fat                float64     `json:"fat" yaml:"fat"`
	SaturatedFat       float64     `json:"saturated_fat" yaml:"saturated_fat"`
	Sodium             float64     `json:"sodium" yaml:"sodium"`
	Carbs              float64     `json:"carbs" yaml:"carbs"`
	Fiber              float64     `json:"fiber" yaml:"fiber"`
	Sugar              float64     `json:"sugar" yaml:"sugar"`
	Protein            float64     `json:"protein" yaml:"protein"`
	Points             float64     `json:"points" yaml:"points"`
	CreatedAt          time.Time   `json:"created_at" yaml:"created_at"`
}

// NewFood creates a Food with a generated UUID and a reference serving.
func NewFood(name string, servingType ServingType, servingQty float64) *Food {
	return &Food{
		ID:                 uuid.New(),
		Name:               name,
		DefaultServingType: servingType,
		ServingTypeQty:     servingQty,
		CreatedAt:          time.Now(),
	}
}

// WithNutrients copies the nutrient values of n onto the food.
func (f *Food) WithNutrients(n Nutrients) *Food {
	f.Calories = int(n.Calories)
	f.Fat = n.Fat
	f.SaturatedFat = n.SaturatedFat
	f.Sodium = n.Sodium
	f.Carbs = n.Carbs
	f.Fiber = n.Fiber
	f.Sugar = n.Sugar
	f.Protein = n.Protein
	f.Points = n.Points
	return f
}

// Nutrients returns the reference nutrient profile.
func (f Food) Nutrients() Nutrients {
	return Nutrients{
		Calories:     float64(f.Calories),
		Fat:          f.Fat,
		SaturatedFat: f.SaturatedFat,
		Sodium:       f.Sodium,
		Carbs:        f.Carbs,
		Fiber:        f.Fiber,
		Sugar:        f.Sugar,
		Protein:      f.Protein,
		Points:       f.Points,
	}
}

// Validate checks identity, serving definition and that no nutrient is negative.
func (f Food) Validate() error {
	if f.ID == uuid.Nil {
		return invalid("food id", "is required")
	}
	if strings.TrimSpace(f.Name) == "" {
		return invalid("food name", "is required")
	}
	if err := validateServingType("default serving type", f.DefaultServingType); err != nil {
		return err
	}
	if err := validateQty("serving type qty", f.ServingTypeQty); err != nil {
		return err
	}
	if f.Calories < 0 {
		return invalid("calories", "must not be negative (got %d)", f.Calories)
	}
	for _, v := range []struct {
		field string
		value float64
	}{
		{"fat", f.Fat},
		{"saturated fat", f.SaturatedFat},
		{"sodium", f.Sodium},
		{"carbs", f.Carbs},
		{"fiber", f.Fiber},
		{"sugar", f.Sugar},
		{"protein", f.Protein},
		{"points", f.Points},
	} {
		if err := validateQty(v.field, v.value); err != nil {
			return err
		}
	}
	return nil
}

// ReferenceIsZero reports whether the food's reference serving has no
// convertible size, which makes every scaled value collapse to zero.
func (f Food) ReferenceIsZero() bool {
	return f.ServingTypeQty == 0
}
