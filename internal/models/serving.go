// ABOUTME: Serving types, their ounce-equivalent weights, and the scale ratio engine.
// ABOUTME: Converts a logged quantity+unit into a multiplier over a food's reference nutrients.
package models

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ServingType is a unit a food can be authored or logged in.
type ServingType string

const (
	ServingOunce      ServingType = "ounce"
	ServingCup        ServingType = "cup"
	ServingPound      ServingType = "pound"
	ServingPiece      ServingType = "piece"
	ServingSlice      ServingType = "slice"
	ServingTablespoon ServingType = "tablespoon"
	ServingTeaspoon   ServingType = "teaspoon"
	ServingGram       ServingType = "gram"
)

// ServingWeights maps each serving type to its weight in ounces.
// A zero weight marks a countable unit (piece, slice) that cannot be
// converted to or from any other unit.
type ServingWeights map[ServingType]float64

// DefaultServingWeights is the unit table used by every record.
var DefaultServingWeights = ServingWeights{
	ServingOunce:      1,
	ServingCup:        8,
	ServingPound:      16,
	ServingPiece:      0,
	ServingSlice:      0,
	ServingTablespoon: 0.5,
	ServingTeaspoon:   0.1666667,
	ServingGram:       0.035274,
}

var servingAliases = map[string]ServingType{
	"oz":     ServingOunce,
	"ounces": ServingOunce,
	"cups":   ServingCup,
	"lb":     ServingPound,
	"lbs":    ServingPound,
	"pounds": ServingPound,
	"pieces": ServingPiece,
	"pc":     ServingPiece,
	"slices": ServingSlice,
	"tbsp":   ServingTablespoon,
	"tsp":    ServingTeaspoon,
	"g":      ServingGram,
	"grams":  ServingGram,
}

func init() {
	if err := DefaultServingWeights.Validate(); err != nil {
		panic(fmt.Sprintf("serving weight table: %v", err))
	}
}

// Validate checks that every weight is finite and non-negative.
func (w ServingWeights) Validate() error {
	if len(w) == 0 {
		return invalid("serving weights", "table is empty")
	}
	for st, weight := range w {
		if st == "" {
			return invalid("serving weights", "empty serving type")
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
			return invalid("serving weights", "%s has weight %v", st, weight)
		}
	}
	return nil
}

// Weight returns the ounce-equivalent of one unit and whether the type is known.
func (w ServingWeights) Weight(st ServingType) (float64, bool) {
	weight, ok := w[st]
	return weight, ok
}

// Types returns the known serving types sorted by name.
func (w ServingWeights) Types() []ServingType {
	types := make([]ServingType, 0, len(w))
	for st := range w {
		types = append(types, st)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// IsValid reports whether st is a known serving type.
func (st ServingType) IsValid() bool {
	_, ok := DefaultServingWeights[st]
	return ok
}

// Weight returns the ounce-equivalent weight of one unit of st.
func (st ServingType) Weight() float64 {
	return DefaultServingWeights[st]
}

// Convertible reports whether st has a non-zero weight.
func (st ServingType) Convertible() bool {
	return st.Weight() > 0
}

// ParseServingType resolves a serving type name or common abbreviation.
func ParseServingType(s string) (ServingType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if st := ServingType(key); st.IsValid() {
		return st, nil
	}
	if st, ok := servingAliases[key]; ok {
		return st, nil
	}
	return "", invalid("serving type", "unknown unit %q", s)
}

// ScaleRatio returns the multiplier that turns food's reference nutrient
// values into the content of servingQty units of servingType.
//
// When the unit matches the food's default the ratio is a plain proportion.
// Otherwise both sides are converted through their unit weights. A zero
// reference denominator yields 0 rather than NaN or Inf.
func ScaleRatio(servingType ServingType, servingQty float64, food Food) float64 {
	if servingType == food.DefaultServingType {
		if food.ServingTypeQty == 0 {
			return 0
		}
		return servingQty / food.ServingTypeQty
	}

	denominator := food.DefaultServingType.Weight() * food.ServingTypeQty
	if denominator == 0 {
		return 0
	}
	return (servingType.Weight() * servingQty) / denominator
}

func validateQty(field string, qty float64) error {
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return invalid(field, "must be a finite number")
	}
	if qty < 0 {
		return invalid(field, "must not be negative (got %v)", qty)
	}
	return nil
}

func validateServingType(field string, st ServingType) error {
	if st == "" {
		return invalid(field, "is required")
	}
	if !st.IsValid() {
		return invalid(field, "unknown unit %q", st)
	}
	return nil
}
