// Package history tracks which recipes were served in which weeks.
// History is append-only: weeks are recorded once, never merged.
package history

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"appetizer/internal/config"
	"appetizer/internal/model"
)

// Store defines the persistence interface for meal history.
type Store interface {
	// Record appends one entry per recipe id for the given week. It fails
	// with *model.DuplicateWeekError if the week already has entries,
	// leaving history unchanged.
	Record(ctx context.Context, week model.WeekID, recipeIDs []string) error

	// Recent returns entries whose week is within the last windowWeeks
	// weeks, ordered oldest to newest.
	Recent(ctx context.Context, windowWeeks int) ([]model.HistoryEntry, error)

	// Frequency counts appearances of a recipe within the window.
	Frequency(ctx context.Context, recipeID string, windowWeeks int) (int, error)

	// Prune deletes entries older than the retention window and reports
	// how many were removed.
	Prune(ctx context.Context, retentionWeeks int) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the Store selected by configuration.
func Open(ctx context.Context, cfg config.HistoryConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("history: unknown driver %q", cfg.Driver)
	}
}

// normalizeIDs trims, deduplicates, and validates the recipe id list.
func normalizeIDs(recipeIDs []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, id := range recipeIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, eris.New("history: empty recipe id")
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, eris.New("history: no recipe ids to record")
	}
	return out, nil
}
