package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appetizer/internal/catalog"
	"appetizer/internal/history"
	"appetizer/internal/model"
	"appetizer/internal/scorer"
)

func newCatalog(t *testing.T, recipes ...model.Recipe) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(recipes)
	require.NoError(t, err)
	return cat
}

func newHistory(t *testing.T) history.Store {
	t.Helper()
	st, err := history.NewSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func dinner(name string, proteins []string, cuisine string) model.Recipe {
	return model.Recipe{
		Name:        name,
		Proteins:    proteins,
		Cuisine:     cuisine,
		Meals:       []model.Meal{model.MealDinner},
		MinServings: 2,
		MaxServings: 4,
	}
}

func lastWeek() model.WeekID {
	return model.WeekOf(time.Now().AddDate(0, 0, -7))
}

func TestPlan_FillsRequestedSlots(t *testing.T) {
	cat := newCatalog(t,
		dinner("Chili", []string{"beans"}, "tex-mex"),
		dinner("Pad Thai", []string{"tofu"}, "thai"),
		dinner("Ramen", []string{"pork"}, "japanese"),
	)
	hist := newHistory(t)

	req := Request{Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 3}}, WindowWeeks: 8}
	plan, err := Plan(context.Background(), cat, hist, req, scorer.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, plan.Assignments, 3)
	assert.NotEmpty(t, plan.ID)
	for i, a := range plan.Assignments {
		assert.Equal(t, model.MealDinner, a.Slot.Meal)
		assert.Equal(t, i+1, a.Slot.Ordinal)
		assert.Equal(t, 2, a.Servings) // min servings when none requested
	}
}

func TestPlan_NoDuplicateRecipes(t *testing.T) {
	cat := newCatalog(t,
		dinner("Chili", []string{"beans"}, "tex-mex"),
		dinner("Pad Thai", []string{"tofu"}, "thai"),
		dinner("Ramen", []string{"pork"}, "japanese"),
	)
	hist := newHistory(t)

	req := Request{Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 3}}}
	plan, err := Plan(context.Background(), cat, hist, req, scorer.DefaultConfig())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, a := range plan.Assignments {
		assert.False(t, seen[a.RecipeID], "recipe %q assigned twice", a.RecipeID)
		seen[a.RecipeID] = true
	}
}

func TestPlan_AvoidsLastWeeksMeal(t *testing.T) {
	cat := newCatalog(t,
		dinner("Chili", []string{"beans"}, "tex-mex"),
		dinner("Pad Thai", []string{"tofu"}, "thai"),
	)
	hist := newHistory(t)
	require.NoError(t, hist.Record(context.Background(), lastWeek(), []string{"Chili"}))

	req := Request{Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 1}}, WindowWeeks: 4}
	plan, err := Plan(context.Background(), cat, hist, req, scorer.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "Pad Thai", plan.Assignments[0].RecipeID)
}

func TestPlan_TieBreaksByName(t *testing.T) {
	// Nothing in history: equal scores everywhere, identifier decides.
	cat := newCatalog(t,
		dinner("Ziti", []string{"sausage"}, "italian"),
		dinner("Arepas", []string{"beef"}, "venezuelan"),
	)
	hist := newHistory(t)

	req := Request{Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 1}}}
	plan, err := Plan(context.Background(), cat, hist, req, scorer.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "Arepas", plan.Assignments[0].RecipeID)
}

func TestPlan_InsufficientCandidates(t *testing.T) {
	cat := newCatalog(t,
		model.Recipe{Name: "Shakshuka", Meals: []model.Meal{model.MealLunch}, MinServings: 2, MaxServings: 4},
		model.Recipe{Name: "BLT", Meals: []model.Meal{model.MealLunch}, MinServings: 1, MaxServings: 2},
	)
	hist := newHistory(t)

	req := Request{Requirements: []SlotRequirement{{Meal: model.MealLunch, Count: 3}}}
	_, err := Plan(context.Background(), cat, hist, req, scorer.DefaultConfig())

	var insufficient *model.InsufficientCandidatesError
	require.True(t, errors.As(err, &insufficient), "want InsufficientCandidatesError, got %v", err)
	assert.Equal(t, model.Slot{Meal: model.MealLunch, Ordinal: 3}, insufficient.Slot)
}

func TestPlan_ServingsFilter(t *testing.T) {
	cat := newCatalog(t,
		model.Recipe{Name: "Date Night Steak", Meals: []model.Meal{model.MealDinner}, MinServings: 2, MaxServings: 2},
		model.Recipe{Name: "Party Chili", Meals: []model.Meal{model.MealDinner}, MinServings: 4, MaxServings: 10},
	)
	hist := newHistory(t)

	req := Request{
		Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 1}},
		Servings:     6,
	}
	plan, err := Plan(context.Background(), cat, hist, req, scorer.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "Party Chili", plan.Assignments[0].RecipeID)
	assert.Equal(t, 6, plan.Assignments[0].Servings)
}

func TestPlan_UnknownHistoryEntriesTolerated(t *testing.T) {
	cat := newCatalog(t, dinner("Chili", []string{"beans"}, "tex-mex"))
	hist := newHistory(t)
	require.NoError(t, hist.Record(context.Background(), lastWeek(), []string{"Retired Dish"}))

	req := Request{Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 1}}, WindowWeeks: 4}
	plan, err := Plan(context.Background(), cat, hist, req, scorer.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "Chili", plan.Assignments[0].RecipeID)
}

func TestPlan_RequestValidation(t *testing.T) {
	cat := newCatalog(t, dinner("Chili", []string{"beans"}, "tex-mex"))
	hist := newHistory(t)
	cfg := scorer.DefaultConfig()

	tests := []struct {
		name string
		req  Request
	}{
		{"no requirements", Request{}},
		{"bad meal", Request{Requirements: []SlotRequirement{{Meal: "supper", Count: 1}}}},
		{"zero count", Request{Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 0}}}},
		{"negative servings", Request{Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 1}}, Servings: -1}},
		{"negative window", Request{Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 1}}, WindowWeeks: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(context.Background(), cat, hist, tt.req, cfg)
			assert.Error(t, err)
		})
	}
}

func TestConfirm(t *testing.T) {
	cat := newCatalog(t,
		dinner("Chili", []string{"beans"}, "tex-mex"),
		dinner("Pad Thai", []string{"tofu"}, "thai"),
	)
	hist := newHistory(t)
	ctx := context.Background()

	req := Request{Requirements: []SlotRequirement{{Meal: model.MealDinner, Count: 2}}}
	plan, err := Plan(ctx, cat, hist, req, scorer.DefaultConfig())
	require.NoError(t, err)

	week := lastWeek()
	require.NoError(t, Confirm(ctx, hist, plan, week))

	entries, err := hist.Recent(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// A second confirmation of the same week is rejected.
	err = Confirm(ctx, hist, plan, week)
	var dup *model.DuplicateWeekError
	assert.True(t, errors.As(err, &dup))
}

func TestConfirm_EmptyPlan(t *testing.T) {
	hist := newHistory(t)
	assert.Error(t, Confirm(context.Background(), hist, nil, lastWeek()))
	assert.Error(t, Confirm(context.Background(), hist, &model.WeeklyPlan{}, lastWeek()))
}
