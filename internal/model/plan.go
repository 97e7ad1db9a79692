package model

import (
	"fmt"
	"time"
)

// Slot is one position in a weekly plan: a meal type plus an ordinal
// distinguishing repeated meals ("dinner 3").
type Slot struct {
	Meal    Meal `json:"meal"`
	Ordinal int  `json:"ordinal"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %d", s.Meal, s.Ordinal)
}

// Assignment binds a recipe and serving count to a slot.
type Assignment struct {
	Slot     Slot   `json:"slot"`
	RecipeID string `json:"recipe_id"`
	Servings int    `json:"servings"`
}

// WeeklyPlan is the planner's output: an ordered set of slot assignments.
// No recipe appears in more than one slot.
type WeeklyPlan struct {
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	Assignments []Assignment `json:"assignments"`
}

// RecipeIDs returns the selected recipe identifiers in slot order.
func (p *WeeklyPlan) RecipeIDs() []string {
	ids := make([]string, 0, len(p.Assignments))
	for _, a := range p.Assignments {
		ids = append(ids, a.RecipeID)
	}
	return ids
}

// Contains reports whether the plan already uses the recipe.
func (p *WeeklyPlan) Contains(recipeID string) bool {
	for _, a := range p.Assignments {
		if a.RecipeID == recipeID {
			return true
		}
	}
	return false
}
