package model

import "fmt"

// MalformedCatalogError reports a catalog file that cannot be loaded.
// Row is the 1-based spreadsheet row, or 0 for sheet-level problems.
type MalformedCatalogError struct {
	Row    int
	Reason string
}

func (e *MalformedCatalogError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed catalog: row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("malformed catalog: %s", e.Reason)
}

// NotFoundError reports a lookup of an unknown recipe identifier.
type NotFoundError struct {
	RecipeID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("recipe not found: %s", e.RecipeID)
}

// DuplicateWeekError reports an attempt to record a week that already has
// history entries. Re-submissions are rejected, never merged.
type DuplicateWeekError struct {
	WeekID WeekID
}

func (e *DuplicateWeekError) Error() string {
	return fmt.Sprintf("week already recorded: %s", e.WeekID)
}

// InsufficientCandidatesError reports that the planner could not fill a
// slot because every eligible recipe was already placed in the plan.
type InsufficientCandidatesError struct {
	Slot Slot
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("no eligible recipe left for slot %q", e.Slot)
}
