// ABOUTME: Nutrients bundles the nine tracked nutrient values.
// ABOUTME: Used for reference profiles, scaled record values, and report totals.
package models

// Nutrients holds one set of nutrient values. Calories is a float here so
// totals can be accumulated; record accessors expose it truncated to int.
type Nutrients struct {
	Calories     float64 `json:"calories" yaml:"calories"`
	Fat          float64 `json:"fat" yaml:"fat"`
	SaturatedFat float64 `json:"saturated_fat" yaml:"saturated_fat"`
	Sodium       float64 `json:"sodium" yaml:"sodium"`
	Carbs        float64 `json:"carbs" yaml:"carbs"`
	Fiber        float64 `json:"fiber" yaml:"fiber"`
	Sugar        float64 `json:"sugar" yaml:"sugar"`
	Protein      float64 `json:"protein" yaml:"protein"`
	Points       float64 `json:"points" yaml:"points"`
}

// Scale returns n multiplied by ratio.
func (n Nutrients) Scale(ratio float64) Nutrients {
	return Nutrients{
		Calories:     n.Calories * ratio,
		Fat:          n.Fat * ratio,
		SaturatedFat: n.SaturatedFat * ratio,
		Sodium:       n.Sodium * ratio,
		Carbs:        n.Carbs * ratio,
		Fiber:        n.Fiber * ratio,
		Sugar:        n.Sugar * ratio,
		Protein:      n.Protein * ratio,
		Points:       n.Points * ratio,
	}
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories:     n.Calories + o.Calories,
		Fat:          n.Fat + o.Fat,
		SaturatedFat: n.SaturatedFat + o.SaturatedFat,
		Sodium:       n.Sodium + o.Sodium,
		Carbs:        n.Carbs + o.Carbs,
		Fiber:        n.Fiber + o.Fiber,
		Sugar:        n.Sugar + o.Sugar,
		Protein:      n.Protein + o.Protein,
		Points:       n.Points + o.Points,
	}
}
