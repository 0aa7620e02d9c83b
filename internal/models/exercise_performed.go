// ABOUTME: ExercisePerformed records minutes of one exercise for a user on a date.
// ABOUTME: Same identity and date rules as FoodEaten, with no derived values.
package models

import (
	"github.com/google/uuid"
)

// ExercisePerformed is a logged activity. A user has at most one per
// exercise per day.
type ExercisePerformed struct {
	id       uuid.UUID
	user     UserID
	exercise Exercise
	date     Date
	minutes  int
}

// NewExercisePerformed validates every argument before building the record.
func NewExercisePerformed(id IDSource, user UserID, exercise Exercise, date Date, minutes int) (*ExercisePerformed, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if err := validateExerciseRef(exercise); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if err := validateMinutes(minutes); err != nil {
		return nil, err
	}
	recordID, err := id.resolve()
	if err != nil {
		return nil, err
	}

	return &ExercisePerformed{
		id:       recordID,
		user:     user,
		exercise: exercise,
		date:     date,
		minutes:  minutes,
	}, nil
}

func (ep *ExercisePerformed) ID() uuid.UUID      { return ep.id }
func (ep *ExercisePerformed) User() UserID       { return ep.user }
func (ep *ExercisePerformed) Exercise() Exercise { return ep.exercise }
func (ep *ExercisePerformed) Date() Date         { return ep.date }
func (ep *ExercisePerformed) Minutes() int       { return ep.minutes }

// Key returns the uniqueness key of the record.
func (ep *ExercisePerformed) Key() LogKey {
	return LogKey{Kind: KindExercise, User: ep.user, Entity: ep.exercise.ID, Date: ep.date}
}

func (ep *ExercisePerformed) SetUser(user UserID) error {
	if err := validateUser(user); err != nil {
		return err
	}
	ep.user = user
	return nil
}

func (ep *ExercisePerformed) SetExercise(exercise Exercise) error {
	if err := validateExerciseRef(exercise); err != nil {
		return err
	}
	ep.exercise = exercise
	return nil
}

func (ep *ExercisePerformed) SetDate(date Date) error {
	if err := validateDate(date); err != nil {
		return err
	}
	ep.date = date
	return nil
}

func (ep *ExercisePerformed) SetMinutes(minutes int) error {
	if err := validateMinutes(minutes); err != nil {
		return err
	}
	ep.minutes = minutes
	return nil
}

func validateExerciseRef(e Exercise) error {
	if e.ID == uuid.Nil {
		return invalid("exercise", "reference is required")
	}
	return e.Validate()
}

func validateMinutes(minutes int) error {
	if minutes < 0 {
		return invalid("minutes", "must not be negative (got %d)", minutes)
	}
	return nil
}
