// Package planner assembles weekly meal plans: for each requested slot it
// greedily picks the eligible recipe most dissimilar to recent history.
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"appetizer/internal/catalog"
	"appetizer/internal/config"
	"appetizer/internal/history"
	"appetizer/internal/model"
	"appetizer/internal/scorer"
)

// SlotRequirement asks for Count slots of one meal type.
type SlotRequirement struct {
	Meal  model.Meal `json:"meal"`
	Count int        `json:"count"`
}

// Request describes the plan to build.
type Request struct {
	Requirements []SlotRequirement `json:"requirements"`
	// Servings, when positive, restricts candidates to recipes whose
	// serving range covers it and assigns that count; otherwise each
	// recipe is assigned its minimum.
	Servings int `json:"servings,omitempty"`
	// WindowWeeks is the history window for the repetition penalty.
	WindowWeeks int `json:"window_weeks,omitempty"`
}

func (r Request) validate() error {
	if len(r.Requirements) == 0 {
		return eris.New("planner: no slot requirements")
	}
	for _, req := range r.Requirements {
		if _, err := model.ParseMeal(string(req.Meal)); err != nil {
			return err
		}
		if req.Count <= 0 {
			return eris.Errorf("planner: requirement for %s has non-positive count %d", req.Meal, req.Count)
		}
	}
	if r.Servings < 0 {
		return eris.Errorf("planner: negative servings %d", r.Servings)
	}
	if r.WindowWeeks < 0 {
		return eris.Errorf("planner: negative window %d", r.WindowWeeks)
	}
	return nil
}

// Plan builds a WeeklyPlan. Slots are filled in requirement order,
// ordinal-major, each taking the highest-ranked eligible candidate not
// already placed. Fails with *model.InsufficientCandidatesError naming
// the first slot that cannot be filled.
func Plan(ctx context.Context, cat *catalog.Catalog, hist history.Store, req Request, cfg config.ScorerConfig) (*model.WeeklyPlan, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := scorer.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	entries, err := hist.Recent(ctx, req.WindowWeeks)
	if err != nil {
		return nil, err
	}
	meals := resolveHistory(cat, entries, time.Now())

	// Scores depend only on history, not on plan state, so every recipe
	// is evaluated once up front.
	ranked := scorer.Evaluate(cat.Recipes(), meals, cfg)

	plan := &model.WeeklyPlan{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}

	for _, r := range req.Requirements {
		for ordinal := 1; ordinal <= r.Count; ordinal++ {
			slot := model.Slot{Meal: r.Meal, Ordinal: ordinal}
			picked, ok := pick(ranked, plan, slot.Meal, req.Servings)
			if !ok {
				return nil, &model.InsufficientCandidatesError{Slot: slot}
			}
			servings := picked.Recipe.MinServings
			if req.Servings > 0 {
				servings = req.Servings
			}
			plan.Assignments = append(plan.Assignments, model.Assignment{
				Slot:     slot,
				RecipeID: picked.Recipe.Name,
				Servings: servings,
			})
		}
	}

	zap.L().Info("plan generated",
		zap.String("plan_id", plan.ID),
		zap.Int("slots", len(plan.Assignments)),
		zap.Int("window_weeks", req.WindowWeeks),
	)
	return plan, nil
}

// pick returns the first ranked candidate eligible for the meal, able to
// provide the requested servings, and not already in the plan.
func pick(ranked []scorer.Candidate, plan *model.WeeklyPlan, meal model.Meal, servings int) (scorer.Candidate, bool) {
	for _, c := range ranked {
		if !c.Recipe.EligibleFor(meal) {
			continue
		}
		if servings > 0 && !c.Recipe.Serves(servings) {
			continue
		}
		if plan.Contains(c.Recipe.Name) {
			continue
		}
		return c, true
	}
	return scorer.Candidate{}, false
}

// Confirm folds an accepted plan into history. Re-confirming a week fails
// with *model.DuplicateWeekError and leaves history unchanged.
func Confirm(ctx context.Context, hist history.Store, plan *model.WeeklyPlan, week model.WeekID) error {
	if plan == nil || len(plan.Assignments) == 0 {
		return eris.New("planner: cannot confirm an empty plan")
	}
	if err := hist.Record(ctx, week, plan.RecipeIDs()); err != nil {
		return err
	}
	zap.L().Info("plan confirmed",
		zap.String("plan_id", plan.ID),
		zap.String("week", string(week)),
		zap.Int("recipes", len(plan.Assignments)),
	)
	return nil
}

// resolveHistory attaches recipe attributes and week distances to raw
// history entries. Entries for recipes no longer in the catalog keep
// their id for frequency counting but contribute no attribute overlap.
func resolveHistory(cat *catalog.Catalog, entries []model.HistoryEntry, now time.Time) []scorer.HistoricalMeal {
	current := model.WeekOf(now).Index()
	meals := make([]scorer.HistoricalMeal, 0, len(entries))
	for _, e := range entries {
		m := scorer.HistoricalMeal{
			RecipeID: e.RecipeID,
			WeeksAgo: current - e.WeekID.Index(),
		}
		if r, err := cat.Lookup(e.RecipeID); err == nil {
			m.Recipe = r
			m.Known = true
		} else {
			zap.L().Debug("history entry references unknown recipe",
				zap.String("recipe_id", e.RecipeID),
				zap.String("week", string(e.WeekID)),
			)
		}
		meals = append(meals, m)
	}
	return meals
}
