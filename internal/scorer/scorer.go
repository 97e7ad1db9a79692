package scorer

import (
	"math"
	"sort"
	"strings"

	"appetizer/internal/config"
	"appetizer/internal/model"
)

// HistoricalMeal is one resolved history occurrence: the recipe that was
// served and how many weeks ago. Entries whose recipe is no longer in the
// catalog carry only the id; they contribute to frequency, not overlap.
type HistoricalMeal struct {
	RecipeID string
	Recipe   model.Recipe
	Known    bool
	WeeksAgo int
}

// Candidate is a recipe with its computed score and ranking keys.
type Candidate struct {
	Recipe model.Recipe `json:"recipe"`
	// Score is the negated aggregate similarity. 0 for never-seen recipes
	// against empty history; negative values mean "actively avoid".
	Score float64 `json:"score"`
	// Frequency counts the recipe's own appearances in the window.
	Frequency int `json:"frequency"`
	// DissimilarDimensions counts dimensions (0-4) where the candidate
	// shares nothing with any historical recipe.
	DissimilarDimensions int `json:"dissimilar_dimensions"`
}

// Score computes the dissimilarity score of one candidate against the
// history window. Pure function: no side effects, deterministic.
//
// For each historical occurrence, per-dimension similarities are weighted
// by the dimension weights and by recency decay (decay^weeksAgo). Each
// occurrence contributes separately, so repetition frequency compounds
// the penalty. The score is the negated total, so adding attribute-sharing
// occurrences never raises it.
func Score(candidate model.Recipe, history []HistoricalMeal, cfg config.ScorerConfig) float64 {
	var total float64
	for _, h := range history {
		if !h.Known {
			continue
		}
		sim := dimensionSimilarity(candidate, h.Recipe, cfg)
		if sim == 0 {
			continue
		}
		weeksAgo := h.WeeksAgo
		if weeksAgo < 0 {
			weeksAgo = 0
		}
		total += sim * math.Pow(cfg.RecencyDecay, float64(weeksAgo))
	}
	return -total
}

// dimensionSimilarity aggregates per-dimension overlap into one scalar.
func dimensionSimilarity(a, b model.Recipe, cfg config.ScorerConfig) float64 {
	var sim float64
	if setsOverlap(a.Proteins, b.Proteins) {
		sim += cfg.ProteinWeight
	}
	if setsOverlap(a.Starches, b.Starches) {
		sim += cfg.StarchWeight
	}
	if scalarMatch(a.Cuisine, b.Cuisine) {
		sim += cfg.CuisineWeight
	}
	if scalarMatch(a.Form, b.Form) {
		sim += cfg.FormWeight
	}
	return sim
}

// Evaluate scores every candidate against the history window and returns
// them ranked best-first.
func Evaluate(candidates []model.Recipe, history []HistoricalMeal, cfg config.ScorerConfig) []Candidate {
	freq := make(map[string]int, len(history))
	for _, h := range history {
		freq[h.RecipeID]++
	}

	out := make([]Candidate, 0, len(candidates))
	for _, r := range candidates {
		out = append(out, Candidate{
			Recipe:               r,
			Score:                Score(r, history, cfg),
			Frequency:            freq[r.Name],
			DissimilarDimensions: dissimilarDimensions(r, history),
		})
	}
	Rank(out)
	return out
}

// Rank sorts candidates best-first: score descending, then fewer
// historical appearances, then identifier for determinism.
func Rank(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Frequency != b.Frequency {
			return a.Frequency < b.Frequency
		}
		return a.Recipe.Name < b.Recipe.Name
	})
}

// dissimilarDimensions counts dimensions where the candidate shares
// nothing with any historical recipe. 4 against empty history.
func dissimilarDimensions(candidate model.Recipe, history []HistoricalMeal) int {
	protein, starch, cuisine, form := true, true, true, true
	for _, h := range history {
		if !h.Known {
			continue
		}
		if setsOverlap(candidate.Proteins, h.Recipe.Proteins) {
			protein = false
		}
		if setsOverlap(candidate.Starches, h.Recipe.Starches) {
			starch = false
		}
		if scalarMatch(candidate.Cuisine, h.Recipe.Cuisine) {
			cuisine = false
		}
		if scalarMatch(candidate.Form, h.Recipe.Form) {
			form = false
		}
	}
	n := 0
	for _, d := range []bool{protein, starch, cuisine, form} {
		if d {
			n++
		}
	}
	return n
}

// setsOverlap reports whether two attribute sets share any value,
// case-insensitively.
func setsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[strings.ToLower(v)] = true
	}
	for _, v := range b {
		if set[strings.ToLower(v)] {
			return true
		}
	}
	return false
}

// scalarMatch compares single-valued attributes; empty never matches.
func scalarMatch(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}
