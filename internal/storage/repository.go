// ABOUTME: Repository interface for the food and exercise log.
// ABOUTME: Defines the catalog and log CRUD contract every backend implements.
package storage

import (
	"errors"

	"github.com/harperreed/fitlog/internal/models"
)

var (
	// ErrNotFound is returned when no record matches an ID, prefix, or key.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousPrefix is returned when an ID prefix matches several records.
	ErrAmbiguousPrefix = errors.New("ambiguous prefix: matches multiple records")

	// ErrExists is returned when a catalog name is already taken.
	ErrExists = errors.New("already exists")

	// ErrInUse is returned when deleting a catalog entry that log records still reference.
	ErrInUse = errors.New("still referenced by log entries")
)

// LogFilter narrows log listings. Zero fields do not filter: an empty User
// lists every user, a zero From or To leaves that end of the range open.
// Both dates are inclusive.
type LogFilter struct {
	User  models.UserID
	From  models.Date
	To    models.Date
	Limit int
}

// Day returns a filter for a single user and day.
func Day(user models.UserID, date models.Date) LogFilter {
	return LogFilter{User: user, From: date, To: date}
}

// Matches reports whether a record for user on date passes the filter.
func (f LogFilter) Matches(user models.UserID, date models.Date) bool {
	if f.User != "" && f.User != user {
		return false
	}
	if !f.From.IsZero() && date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && date.After(f.To) {
		return false
	}
	return true
}

// Repository defines the storage interface for catalog and log data.
//
// Create and Update of log records enforce the (user, entity, date)
// uniqueness precondition and fail with models.ErrDuplicate on conflict.
type Repository interface {
	// Food catalog
	CreateFood(f *models.Food) error
	GetFood(idOrPrefix string) (*models.Food, error)
	FindFoodByName(name string) (*models.Food, error)
	ListFoods(search string, limit int) ([]*models.Food, error)
	DeleteFood(idOrPrefix string) error

	// Exercise catalog
	CreateExercise(e *models.Exercise) error
	GetExercise(idOrPrefix string) (*models.Exercise, error)
	FindExerciseByName(name string) (*models.Exercise, error)
	ListExercises(search string, limit int) ([]*models.Exercise, error)
	DeleteExercise(idOrPrefix string) error

	// Food log
	CreateFoodEaten(fe *models.FoodEaten) error
	UpdateFoodEaten(fe *models.FoodEaten) error
	GetFoodEaten(idOrPrefix string) (*models.FoodEaten, error)
	FindFoodEaten(key models.LogKey) (*models.FoodEaten, error)
	ListFoodEaten(filter LogFilter) ([]*models.FoodEaten, error)
	DeleteFoodEaten(idOrPrefix string) error

	// Exercise log
	CreateExercisePerformed(ep *models.ExercisePerformed) error
	UpdateExercisePerformed(ep *models.ExercisePerformed) error
	GetExercisePerformed(idOrPrefix string) (*models.ExercisePerformed, error)
	FindExercisePerformed(key models.LogKey) (*models.ExercisePerformed, error)
	ListExercisePerformed(filter LogFilter) ([]*models.ExercisePerformed, error)
	DeleteExercisePerformed(idOrPrefix string) error

	// Lifecycle
	Close() error
}
