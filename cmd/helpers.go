package main

import (
	"context"
	"time"

	"appetizer/internal/catalog"
	"appetizer/internal/history"
	"appetizer/internal/model"
)

// currentWeek returns the ISO week containing today.
func currentWeek() model.WeekID {
	return model.WeekOf(time.Now())
}

// loadCatalog reads the configured spreadsheet.
func loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(cfg.Catalog.Path, cfg.Catalog.Sheet)
}

// openHistory opens the configured history backend and runs migrations.
func openHistory(ctx context.Context) (history.Store, error) {
	st, err := history.Open(ctx, cfg.History)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// resolveWindow prefers an explicit flag over the configured default.
func resolveWindow(flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Planner.WindowWeeks
}

// recentRecipes resolves the recipes served within the window, skipping
// ids no longer in the catalog.
func recentRecipes(ctx context.Context, cat *catalog.Catalog, hist history.Store, window int) ([]model.Recipe, error) {
	entries, err := hist.Recent(ctx, window)
	if err != nil {
		return nil, err
	}
	var recipes []model.Recipe
	for _, e := range entries {
		if r, err := cat.Lookup(e.RecipeID); err == nil {
			recipes = append(recipes, r)
		}
	}
	return recipes, nil
}
