// Package model defines the domain types shared across the planner:
// recipes, meal slots, history entries, and weekly plans.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Meal is a meal type a recipe can be eligible for.
type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealBrunch    Meal = "brunch"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
)

// Meals lists all recognized meal types in display order.
var Meals = []Meal{MealBreakfast, MealBrunch, MealLunch, MealDinner}

// ParseMeal normalizes and validates a meal name.
func ParseMeal(s string) (Meal, error) {
	m := Meal(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Meals {
		if m == known {
			return m, nil
		}
	}
	return "", eris.Errorf("model: unknown meal %q", s)
}

// Recipe is one row of the catalog spreadsheet, with multi-value cells
// already split into attribute sets.
type Recipe struct {
	Name        string   `json:"name"`
	Proteins    []string `json:"proteins,omitempty"`
	Starches    []string `json:"starches,omitempty"`
	Cuisine     string   `json:"cuisine,omitempty"`
	Form        string   `json:"form,omitempty"`
	Meals       []Meal   `json:"meals"`
	MinServings int      `json:"min_servings"`
	MaxServings int      `json:"max_servings"`
	Notes       string   `json:"notes,omitempty"`
}

// EligibleFor reports whether the recipe can be served as the given meal.
func (r Recipe) EligibleFor(m Meal) bool {
	for _, meal := range r.Meals {
		if meal == m {
			return true
		}
	}
	return false
}

// Serves reports whether the recipe can provide n servings.
func (r Recipe) Serves(n int) bool {
	return r.MinServings <= n && n <= r.MaxServings
}
