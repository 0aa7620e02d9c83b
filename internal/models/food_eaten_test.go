// ABOUTME: Tests for FoodEaten construction, setters, and derived nutrients.
// ABOUTME: Includes cup, ounce, and pound conversions against real foods.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodEatenCaloriesSameUnit(t *testing.T) {
	food := NewFood("oatmeal", ServingCup, 1)
	food.Calories = 230

	fe, err := NewFoodEaten(GenerateID(), "alice", *food, DateOf(2025, 1, 31), ServingCup, 2)
	require.NoError(t, err)

	assert.Equal(t, 460, fe.Calories())
	assert.InDelta(t, 2.0, fe.Ratio(), 1e-9)
}

func TestFoodEatenCaloriesCrossUnit(t *testing.T) {
	food := NewFood("steak", ServingOunce, 1)
	food.Calories = 100

	fe, err := NewFoodEaten(GenerateID(), "alice", *food, DateOf(2025, 1, 31), ServingPound, 1)
	require.NoError(t, err)

	assert.InDelta(t, 16.0, fe.Ratio(), 1e-9)
	assert.Equal(t, 1600, fe.Calories())
}

func TestFoodEatenDerivedNutrients(t *testing.T) {
	food := NewFood("granola", ServingCup, 0.5).WithNutrients(Nutrients{
		Calories:     210,
		Fat:          8,
		SaturatedFat: 1,
		Sodium:       95,
		Carbs:        30,
		Fiber:        3,
		Sugar:        12,
		Protein:      5,
		Points:       6,
	})

	fe, err := NewFoodEaten(GenerateID(), "alice", *food, Today(), ServingCup, 0.75)
	require.NoError(t, err)

	ratio := 1.5
	assert.Equal(t, 315, fe.Calories())
	assert.InDelta(t, 8*ratio, fe.Fat(), 1e-9)
	assert.InDelta(t, 1*ratio, fe.SaturatedFat(), 1e-9)
	assert.InDelta(t, 95*ratio, fe.Sodium(), 1e-9)
	assert.InDelta(t, 30*ratio, fe.Carbs(), 1e-9)
	assert.InDelta(t, 3*ratio, fe.Fiber(), 1e-9)
	assert.InDelta(t, 12*ratio, fe.Sugar(), 1e-9)
	assert.InDelta(t, 5*ratio, fe.Protein(), 1e-9)
	assert.InDelta(t, 6*ratio, fe.Points(), 1e-9)

	n := fe.Nutrients()
	assert.Equal(t, 315.0, n.Calories)
	assert.InDelta(t, fe.Protein(), n.Protein, 1e-9)
}

func TestFoodEatenCaloriesTruncate(t *testing.T) {
	food := NewFood("apple", ServingPiece, 1)
	food.Calories = 95

	fe, err := NewFoodEaten(GenerateID(), "alice", *food, Today(), ServingPiece, 0.5)
	require.NoError(t, err)

	// 47.5 truncates toward zero
	assert.Equal(t, 47, fe.Calories())
}

func TestFoodEatenZeroReference(t *testing.T) {
	food := NewFood("mystery", ServingOunce, 0)
	food.Calories = 500

	fe, err := NewFoodEaten(GenerateID(), "alice", *food, Today(), ServingPound, 2)
	require.NoError(t, err)

	assert.Equal(t, 0, fe.Calories())
	assert.Equal(t, 0.0, fe.Fat())
}

func TestNewFoodEatenValidation(t *testing.T) {
	food := *NewFood("rice", ServingCup, 1)
	date := Today()

	tests := []struct {
		name  string
		id    IDSource
		user  UserID
		food  Food
		date  Date
		st    ServingType
		qty   float64
		field string
	}{
		{"missing user", GenerateID(), "", food, date, ServingCup, 1, "user"},
		{"missing food", GenerateID(), "alice", Food{}, date, ServingCup, 1, "food"},
		{"missing date", GenerateID(), "alice", food, Date{}, ServingCup, 1, "date"},
		{"unknown unit", GenerateID(), "alice", food, date, "bucket", 1, "serving type"},
		{"negative qty", GenerateID(), "alice", food, date, ServingCup, -1, "serving qty"},
		{"nil supplied id", UseID(uuid.Nil), "alice", food, date, ServingCup, 1, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe, err := NewFoodEaten(tt.id, tt.user, tt.food, tt.date, tt.st, tt.qty)
			assert.Nil(t, fe)
			require.ErrorIs(t, err, ErrInvalidArgument)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestFoodEatenRejectsInvalidFood(t *testing.T) {
	good := *NewFood("rice", ServingCup, 1).WithNutrients(Nutrients{Calories: 200})
	bad := good
	bad.Fat = -3

	fe, err := NewFoodEaten(GenerateID(), "alice", bad, DateOf(2025, 3, 4), ServingCup, 2)
	assert.Nil(t, fe)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fat", verr.Field)

	fe, err = NewFoodEaten(GenerateID(), "alice", good, DateOf(2025, 3, 4), ServingCup, 2)
	require.NoError(t, err)
	require.ErrorIs(t, fe.SetFood(bad), ErrInvalidArgument)
	assert.Equal(t, 0.0, fe.Fat())
	assert.Equal(t, 400, fe.Calories())

	unnamed := good
	unnamed.Name = " "
	assert.ErrorIs(t, fe.SetFood(unnamed), ErrInvalidArgument)
}

func TestFoodEatenIdentity(t *testing.T) {
	food := *NewFood("rice", ServingCup, 1)

	supplied := uuid.New()
	fe, err := NewFoodEaten(UseID(supplied), "alice", food, Today(), ServingCup, 1)
	require.NoError(t, err)
	assert.Equal(t, supplied, fe.ID())

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 1000; i++ {
		fe, err := NewFoodEaten(GenerateID(), "alice", food, Today(), ServingCup, 1)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, fe.ID())
		require.False(t, seen[fe.ID()], "generated id collided")
		seen[fe.ID()] = true
	}
}

func TestFoodEatenDateIsDayOnly(t *testing.T) {
	food := *NewFood("rice", ServingCup, 1)
	morning := time.Date(2025, 3, 4, 7, 15, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 4, 21, 45, 0, 0, time.UTC)

	a, err := NewFoodEaten(GenerateID(), "alice", food, NewDate(morning), ServingCup, 1)
	require.NoError(t, err)
	b, err := NewFoodEaten(GenerateID(), "alice", food, NewDate(evening), ServingCup, 1)
	require.NoError(t, err)

	assert.Equal(t, a.Date(), b.Date())
	assert.Equal(t, a.Key(), b.Key())
}

func TestFoodEatenDateNotAliased(t *testing.T) {
	food := *NewFood("rice", ServingCup, 1)
	date := DateOf(2025, 3, 4)

	fe, err := NewFoodEaten(GenerateID(), "alice", food, date, ServingCup, 1)
	require.NoError(t, err)

	date = date.AddDays(10)
	assert.Equal(t, DateOf(2025, 3, 4), fe.Date())

	got := fe.Date()
	got = got.AddDays(1)
	assert.Equal(t, DateOf(2025, 3, 4), fe.Date())
	assert.Equal(t, fe.Date(), fe.Date())

	next := DateOf(2025, 3, 5)
	require.NoError(t, fe.SetDate(next))
	next = next.AddDays(5)
	assert.Equal(t, DateOf(2025, 3, 5), fe.Date())
}

func TestFoodEatenSettersRejectWithoutMutation(t *testing.T) {
	food := *NewFood("rice", ServingCup, 1)
	fe, err := NewFoodEaten(GenerateID(), "alice", food, DateOf(2025, 3, 4), ServingCup, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, fe.SetServingQty(-2), ErrInvalidArgument)
	assert.ErrorIs(t, fe.SetServingType("bucket"), ErrInvalidArgument)
	assert.ErrorIs(t, fe.SetDate(Date{}), ErrInvalidArgument)
	assert.ErrorIs(t, fe.SetUser(" "), ErrInvalidArgument)
	assert.ErrorIs(t, fe.SetFood(Food{}), ErrInvalidArgument)

	assert.Equal(t, 1.0, fe.ServingQty())
	assert.Equal(t, ServingCup, fe.ServingType())
	assert.Equal(t, DateOf(2025, 3, 4), fe.Date())
	assert.Equal(t, UserID("alice"), fe.User())
	assert.Equal(t, food.ID, fe.Food().ID)

	require.NoError(t, fe.SetServingQty(3))
	require.NoError(t, fe.SetServingType(ServingOunce))
	require.NoError(t, fe.SetUser("bob"))
	assert.Equal(t, 3.0, fe.ServingQty())
	assert.Equal(t, ServingOunce, fe.ServingType())
	assert.Equal(t, UserID("bob"), fe.User())
}

func TestFoodEatenAddServing(t *testing.T) {
	food := *NewFood("milk", ServingCup, 1)

	t.Run("same unit", func(t *testing.T) {
		fe, err := NewFoodEaten(GenerateID(), "alice", food, Today(), ServingCup, 1)
		require.NoError(t, err)
		require.NoError(t, fe.AddServing(ServingCup, 0.5))
		assert.InDelta(t, 1.5, fe.ServingQty(), 1e-9)
	})

	t.Run("converted unit", func(t *testing.T) {
		fe, err := NewFoodEaten(GenerateID(), "alice", food, Today(), ServingCup, 1)
		require.NoError(t, err)
		require.NoError(t, fe.AddServing(ServingOunce, 4))
		assert.InDelta(t, 1.5, fe.ServingQty(), 1e-9)
	})

	t.Run("countable unit", func(t *testing.T) {
		fe, err := NewFoodEaten(GenerateID(), "alice", food, Today(), ServingCup, 1)
		require.NoError(t, err)
		assert.ErrorIs(t, fe.AddServing(ServingPiece, 1), ErrInvalidArgument)
		assert.Equal(t, 1.0, fe.ServingQty())
	})

	t.Run("negative", func(t *testing.T) {
		fe, err := NewFoodEaten(GenerateID(), "alice", food, Today(), ServingCup, 1)
		require.NoError(t, err)
		assert.ErrorIs(t, fe.AddServing(ServingCup, -1), ErrInvalidArgument)
		assert.Equal(t, 1.0, fe.ServingQty())
	})
}

func TestFoodValidate(t *testing.T) {
	valid := *NewFood("bread", ServingSlice, 1)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(f *Food)
	}{
		{"nil id", func(f *Food) { f.ID = uuid.Nil }},
		{"blank name", func(f *Food) { f.Name = "  " }},
		{"unknown unit", func(f *Food) { f.DefaultServingType = "bowl" }},
		{"negative qty", func(f *Food) { f.ServingTypeQty = -1 }},
		{"negative calories", func(f *Food) { f.Calories = -5 }},
		{"negative sodium", func(f *Food) { f.Sodium = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			assert.ErrorIs(t, f.Validate(), ErrInvalidArgument)
		})
	}
}
