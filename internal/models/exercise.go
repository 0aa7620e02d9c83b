// ABOUTME: Exercise reference model: a named activity type with no numeric profile.
// ABOUTME: Exercise-performed records point at one of these.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Exercise is a named activity type.
type Exercise struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewExercise creates an Exercise with a generated UUID.
func NewExercise(name string) *Exercise {
	return &Exercise{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// WithCategory sets the display category.
func (e *Exercise) WithCategory(category string) *Exercise {
	e.Category = category
	return e
}

// Validate checks that the exercise has an identity and a name.
func (e Exercise) Validate() error {
	if e.ID == uuid.Nil {
		return invalid("exercise id", "is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return invalid("exercise name", "is required")
	}
	return nil
}
