// ABOUTME: FoodEaten records one food consumption event for a user on a date.
// ABOUTME: Derived nutrients are computed on demand through ScaleRatio, never stored.
package models

import (
	"github.com/google/uuid"
)

// FoodEaten is a logged consumption. A user has at most one per food per day;
// extra servings are merged into the existing record with AddServing.
//
// A FoodEaten is not safe for concurrent mutation.
type FoodEaten struct {
	id          uuid.UUID
	user        UserID
	food        Food
	date        Date
	servingType ServingType
	servingQty  float64
}

// NewFoodEaten validates every argument before building the record.
func NewFoodEaten(id IDSource, user UserID, food Food, date Date, servingType ServingType, servingQty float64) (*FoodEaten, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if err := validateFoodRef(food); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if err := validateServingType("serving type", servingType); err != nil {
		return nil, err
	}
	if err := validateQty("serving qty", servingQty); err != nil {
		return nil, err
	}
	recordID, err := id.resolve()
	if err != nil {
		return nil, err
	}

	return &FoodEaten{
		id:          recordID,
		user:        user,
		food:        food,
		date:        date,
		servingType: servingType,
		servingQty:  servingQty,
	}, nil
}

func (fe *FoodEaten) ID() uuid.UUID            { return fe.id }
func (fe *FoodEaten) User() UserID             { return fe.user }
func (fe *FoodEaten) Food() Food               { return fe.food }
func (fe *FoodEaten) Date() Date               { return fe.date }
func (fe *FoodEaten) ServingType() ServingType { return fe.servingType }
func (fe *FoodEaten) ServingQty() float64      { return fe.servingQty }

// Key returns the uniqueness key of the record.
func (fe *FoodEaten) Key() LogKey {
	return LogKey{Kind: KindFood, User: fe.user, Entity: fe.food.ID, Date: fe.date}
}

func (fe *FoodEaten) SetUser(user UserID) error {
	if err := validateUser(user); err != nil {
		return err
	}
	fe.user = user
	return nil
}

func (fe *FoodEaten) SetFood(food Food) error {
	if err := validateFoodRef(food); err != nil {
		return err
	}
	fe.food = food
	return nil
}

func (fe *FoodEaten) SetDate(date Date) error {
	if err := validateDate(date); err != nil {
		return err
	}
	fe.date = date
	return nil
}

func (fe *FoodEaten) SetServingType(st ServingType) error {
	if err := validateServingType("serving type", st); err != nil {
		return err
	}
	fe.servingType = st
	return nil
}

func (fe *FoodEaten) SetServingQty(qty float64) error {
	if err := validateQty("serving qty", qty); err != nil {
		return err
	}
	fe.servingQty = qty
	return nil
}

// AddServing folds another serving into this record. A serving in a
// different unit is converted into the record's unit through the unit
// weights; units without a weight cannot take part in that conversion.
func (fe *FoodEaten) AddServing(st ServingType, qty float64) error {
	if err := validateServingType("serving type", st); err != nil {
		return err
	}
	if err := validateQty("serving qty", qty); err != nil {
		return err
	}
	if st == fe.servingType {
		fe.servingQty += qty
		return nil
	}
	if !st.Convertible() || !fe.servingType.Convertible() {
		return invalid("serving type", "cannot combine %s with %s", st, fe.servingType)
	}
	fe.servingQty += qty * st.Weight() / fe.servingType.Weight()
	return nil
}

// Ratio is the scale factor applied to the food's reference nutrients.
func (fe *FoodEaten) Ratio() float64 {
	return ScaleRatio(fe.servingType, fe.servingQty, fe.food)
}

// Calories is truncated toward zero.
func (fe *FoodEaten) Calories() int {
	return int(float64(fe.food.Calories) * fe.Ratio())
}

func (fe *FoodEaten) Fat() float64          { return fe.food.Fat * fe.Ratio() }
func (fe *FoodEaten) SaturatedFat() float64 { return fe.food.SaturatedFat * fe.Ratio() }
func (fe *FoodEaten) Sodium() float64       { return fe.food.Sodium * fe.Ratio() }
func (fe *FoodEaten) Carbs() float64        { return fe.food.Carbs * fe.Ratio() }
func (fe *FoodEaten) Fiber() float64        { return fe.food.Fiber * fe.Ratio() }
func (fe *FoodEaten) Sugar() float64        { return fe.food.Sugar * fe.Ratio() }
func (fe *FoodEaten) Protein() float64      { return fe.food.Protein * fe.Ratio() }
func (fe *FoodEaten) Points() float64       { return fe.food.Points * fe.Ratio() }

// Nutrients returns every derived value at once, with calories truncated
// the same way Calories does.
func (fe *FoodEaten) Nutrients() Nutrients {
	n := fe.food.Nutrients().Scale(fe.Ratio())
	n.Calories = float64(fe.Calories())
	return n
}

func validateFoodRef(f Food) error {
	if f.ID == uuid.Nil {
		return invalid("food", "reference is required")
	}
	return f.Validate()
}

func validateDate(d Date) error {
	if d.IsZero() {
		return invalid("date", "is required")
	}
	return nil
}
