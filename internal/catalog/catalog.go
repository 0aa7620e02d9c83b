// ABOUTME: Food and exercise catalog files: parsing, validation, and load warnings.
// ABOUTME: A catalog seeds the reference entries that log records point at.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"gopkg.in/yaml.v3"
)

// FoodEntry is one food as written in a catalog file. Nutrient values
// describe ServingQty units of Serving.
type FoodEntry struct {
	Name         string  `json:"name" yaml:"name"`
	Serving      string  `json:"serving" yaml:"serving"`
	ServingQty   float64 `json:"serving_qty" yaml:"serving_qty"`
	Calories     int     `json:"calories" yaml:"calories"`
	Fat          float64 `json:"fat,omitempty" yaml:"fat,omitempty"`
	SaturatedFat float64 `json:"saturated_fat,omitempty" yaml:"saturated_fat,omitempty"`
	Sodium       float64 `json:"sodium,omitempty" yaml:"sodium,omitempty"`
	Carbs        float64 `json:"carbs,omitempty" yaml:"carbs,omitempty"`
	Fiber        float64 `json:"fiber,omitempty" yaml:"fiber,omitempty"`
	Sugar        float64 `json:"sugar,omitempty" yaml:"sugar,omitempty"`
	Protein      float64 `json:"protein,omitempty" yaml:"protein,omitempty"`
	Points       float64 `json:"points,omitempty" yaml:"points,omitempty"`
}

// ExerciseEntry is one exercise as written in a catalog file.
type ExerciseEntry struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// File is the on-disk catalog layout.
type File struct {
	Foods     []FoodEntry     `json:"foods" yaml:"foods"`
	Exercises []ExerciseEntry `json:"exercises" yaml:"exercises"`
}

// Warning flags a catalog entry that loads but will not scale the way its
// author probably expects.
type Warning struct {
	Name    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Name, w.Message)
}

// Catalog is a validated set of reference entries.
type Catalog struct {
	Foods     []*models.Food
	Exercises []*models.Exercise
	Warnings  []Warning
}

// Load reads a catalog file, choosing the decoder from its extension.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	cat, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes and validates catalog data. format is "yaml", "yml" or "json".
func Parse(data []byte, format string) (*Catalog, error) {
	var file File
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse YAML catalog: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse JSON catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	return Build(file)
}

// Build validates a decoded catalog file and converts it into models.
func Build(file File) (*Catalog, error) {
	if err := models.DefaultServingWeights.Validate(); err != nil {
		return nil, fmt.Errorf("serving weights: %w", err)
	}

	cat := &Catalog{}
	now := time.Now()

	seen := make(map[string]bool)
	for i, entry := range file.Foods {
		food, err := entry.toFood(now)
		if err != nil {
			return nil, fmt.Errorf("food #%d (%q): %w", i+1, entry.Name, err)
		}
		key := strings.ToLower(strings.TrimSpace(food.Name))
		if seen[key] {
			return nil, fmt.Errorf("food %q listed twice", food.Name)
		}
		seen[key] = true
		cat.Foods = append(cat.Foods, food)
		cat.Warnings = append(cat.Warnings, foodWarnings(food)...)
	}

	seen = make(map[string]bool)
	for i, entry := range file.Exercises {
		exercise := models.NewExercise(strings.TrimSpace(entry.Name)).WithCategory(strings.TrimSpace(entry.Category))
		exercise.CreatedAt = now
		if err := exercise.Validate(); err != nil {
			return nil, fmt.Errorf("exercise #%d (%q): %w", i+1, entry.Name, err)
		}
		key := strings.ToLower(exercise.Name)
		if seen[key] {
			return nil, fmt.Errorf("exercise %q listed twice", exercise.Name)
		}
		seen[key] = true
		cat.Exercises = append(cat.Exercises, exercise)
	}

	return cat, nil
}

func (e FoodEntry) toFood(now time.Time) (*models.Food, error) {
	st, err := models.ParseServingType(e.Serving)
	if err != nil {
		return nil, err
	}
	food := &models.Food{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(e.Name),
		DefaultServingType: st,
		ServingTypeQty:     e.ServingQty,
		Calories:           e.Calories,
		Fat:                e.Fat,
		SaturatedFat:       e.SaturatedFat,
		Sodium:             e.Sodium,
		Carbs:              e.Carbs,
		Fiber:              e.Fiber,
		Sugar:              e.Sugar,
		Protein:            e.Protein,
		Points:             e.Points,
		CreatedAt:          now,
	}
	if err := food.Validate(); err != nil {
		return nil, err
	}
	return food, nil
}

// foodWarnings reports reference servings that collapse scaling to zero.
func foodWarnings(f *models.Food) []Warning {
	var warnings []Warning
	if f.ReferenceIsZero() {
		warnings = append(warnings, Warning{
			Name:    f.Name,
			Message: "reference serving quantity is 0; every logged serving will count as 0",
		})
	}
	if !f.DefaultServingType.Convertible() {
		warnings = append(warnings, Warning{
			Name:    f.Name,
			Message: fmt.Sprintf("%s has no weight; servings in other units will count as 0", f.DefaultServingType),
		})
	}
	return warnings
}
