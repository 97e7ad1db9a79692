package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeal(t *testing.T) {
	tests := []struct {
		in      string
		want    Meal
		wantErr bool
	}{
		{"dinner", MealDinner, false},
		{" Lunch ", MealLunch, false},
		{"BRUNCH", MealBrunch, false},
		{"breakfast", MealBreakfast, false},
		{"supper", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMeal(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecipeEligibleFor(t *testing.T) {
	r := Recipe{Name: "Shakshuka", Meals: []Meal{MealBreakfast, MealBrunch}}
	assert.True(t, r.EligibleFor(MealBreakfast))
	assert.True(t, r.EligibleFor(MealBrunch))
	assert.False(t, r.EligibleFor(MealDinner))
}

func TestRecipeServes(t *testing.T) {
	r := Recipe{MinServings: 2, MaxServings: 4}
	assert.False(t, r.Serves(1))
	assert.True(t, r.Serves(2))
	assert.True(t, r.Serves(4))
	assert.False(t, r.Serves(5))
}

func TestWeeklyPlanContains(t *testing.T) {
	p := &WeeklyPlan{Assignments: []Assignment{
		{Slot: Slot{Meal: MealDinner, Ordinal: 1}, RecipeID: "Chili", Servings: 4},
		{Slot: Slot{Meal: MealDinner, Ordinal: 2}, RecipeID: "Pad Thai", Servings: 2},
	}}
	assert.True(t, p.Contains("Chili"))
	assert.False(t, p.Contains("Tacos"))
	assert.Equal(t, []string{"Chili", "Pad Thai"}, p.RecipeIDs())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "malformed catalog: row 3: empty recipe name",
		(&MalformedCatalogError{Row: 3, Reason: "empty recipe name"}).Error())
	assert.Equal(t, "malformed catalog: sheet is empty",
		(&MalformedCatalogError{Reason: "sheet is empty"}).Error())
	assert.Equal(t, "recipe not found: Chili", (&NotFoundError{RecipeID: "Chili"}).Error())
	assert.Equal(t, "week already recorded: 2026-W10",
		(&DuplicateWeekError{WeekID: "2026-W10"}).Error())

	err := error(&InsufficientCandidatesError{Slot: Slot{Meal: MealLunch, Ordinal: 3}})
	assert.Contains(t, err.Error(), "lunch 3")

	var target *InsufficientCandidatesError
	assert.True(t, errors.As(err, &target))
}
