// Package scorer computes dissimilarity scores between candidate recipes
// and recent meal history. Higher scores mean "more different".
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"appetizer/internal/config"
)

// DefaultConfig returns a config.ScorerConfig with sensible defaults.
// Protein repetition is the most noticeable repeat, so it carries the
// highest weight; form the lowest. Weights sum to 1.
func DefaultConfig() config.ScorerConfig {
	return config.ScorerConfig{
		ProteinWeight: 0.40,
		StarchWeight:  0.25,
		CuisineWeight: 0.25,
		FormWeight:    0.10,
		RecencyDecay:  0.7,
	}
}

// WeightSum returns the sum of all dimension weights.
func WeightSum(c config.ScorerConfig) float64 {
	return c.ProteinWeight + c.StarchWeight + c.CuisineWeight + c.FormWeight
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	weights := map[string]float64{
		"protein_weight": c.ProteinWeight,
		"starch_weight":  c.StarchWeight,
		"cuisine_weight": c.CuisineWeight,
		"form_weight":    c.FormWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := WeightSum(c)
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}
	// Allow tolerance for floating-point.
	if math.Abs(sum-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.2f", sum))
	}

	if c.RecencyDecay <= 0 || c.RecencyDecay > 1 {
		errs = append(errs, "recency_decay must be in (0, 1]")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
