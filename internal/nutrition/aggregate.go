package nutrition

import (
	"math"

	"smart-cart-backend/internal/model"
	"smart-cart-backend/internal/parse"
)

// Totals is the sum of the nutrition fields across a set of scanned items.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Percentages is the share of each macro in the macro total, as integers
// in [0,100]. Independent rounding means the three values may not sum to
// exactly 100.
type Percentages struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fats    int `json:"fats"`
}

// Aggregate folds a set of scanned items into nutrition totals and macro
// percentages. It is a pure function of its input: fields stored as "Ng"
// strings are parsed with the unit stripped, and a missing or malformed
// field counts as 0 rather than failing the whole aggregation.
func Aggregate(items []model.ScannedItem) (Totals, Percentages) {
	var totals Totals
	for _, item := range items {
		if item.Calories > 0 {
			totals.Calories += item.Calories
		}
		totals.Protein += parse.Grams(item.Protein)
		totals.Carbs += parse.Grams(item.Carbs)
		totals.Fats += parse.Grams(item.Fats)
	}
	return totals, percentagesOf(totals)
}

// percentagesOf derives macro shares from totals. All three are 0 when the
// macro total is 0, which also covers the division-by-zero case.
func percentagesOf(t Totals) Percentages {
	totalMacros := t.Protein + t.Carbs + t.Fats
	if totalMacros == 0 {
		return Percentages{}
	}
	return Percentages{
		Protein: int(math.Round(t.Protein / totalMacros * 100)),
		Carbs:   int(math.Round(t.Carbs / totalMacros * 100)),
		Fats:    int(math.Round(t.Fats / totalMacros * 100)),
	}
}
