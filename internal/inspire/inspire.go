// Package inspire composes random recipe ideas from catalog categories
// not used by recently-served recipes.
package inspire

import (
	"math/rand"
	"strings"

	"appetizer/internal/catalog"
	"appetizer/internal/model"
)

// Placeholder category values that make poor inspiration.
var excluded = map[string]bool{"none": true, "other": true}

// Generator produces recipe ideas. The seed is fixed per session so
// repeated clicks walk a stable sequence.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator seeded for one session.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Idea composes a recipe idea like "thai soup with tofu and rice" from
// categories no recent recipe used. Dimensions are included
// probabilistically: cuisine 50%, form 70%, protein always, starch 50%.
// Returns "" when every interesting category has been used recently.
func (g *Generator) Idea(cat *catalog.Catalog, recent []model.Recipe) string {
	var b strings.Builder

	if g.rng.Float64() < 0.5 {
		appendPart(&b, "", g.fresh(cat, catalog.DimCuisine, recent))
	}
	if g.rng.Float64() < 0.7 {
		appendPart(&b, "", g.fresh(cat, catalog.DimForm, recent))
	}
	prefix := ""
	if b.Len() > 0 {
		prefix = "with "
	}
	appendPart(&b, prefix, g.fresh(cat, catalog.DimProtein, recent))
	if g.rng.Float64() < 0.5 {
		prefix = ""
		if b.Len() > 0 {
			prefix = "and "
		}
		appendPart(&b, prefix, g.fresh(cat, catalog.DimStarch, recent))
	}

	return strings.TrimSpace(b.String())
}

func appendPart(b *strings.Builder, prefix, value string) {
	if value == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	b.WriteString(prefix)
	b.WriteString(value)
}

// fresh picks a random category in the dimension that no recent recipe
// uses, or "" when none remain.
func (g *Generator) fresh(cat *catalog.Catalog, dim string, recent []model.Recipe) string {
	used := make(map[string]bool)
	for _, r := range recent {
		for _, v := range dimensionValues(r, dim) {
			used[strings.ToLower(v)] = true
		}
	}

	var fresh []string
	for _, v := range cat.Categories(dim) {
		key := strings.ToLower(v)
		if used[key] || excluded[key] {
			continue
		}
		fresh = append(fresh, v)
	}
	if len(fresh) == 0 {
		return ""
	}
	return fresh[g.rng.Intn(len(fresh))]
}

func dimensionValues(r model.Recipe, dim string) []string {
	switch dim {
	case catalog.DimProtein:
		return r.Proteins
	case catalog.DimStarch:
		return r.Starches
	case catalog.DimCuisine:
		if r.Cuisine == "" {
			return nil
		}
		return []string{r.Cuisine}
	case catalog.DimForm:
		if r.Form == "" {
			return nil
		}
		return []string{r.Form}
	}
	return nil
}
