// Package catalog loads the recipe spreadsheet into an immutable
// in-memory catalog. Multi-value cells are split into attribute sets at
// load time so malformed input is caught in one place.
package catalog

import (
	"iter"
	"sort"
	"strconv"
	"strings"

	"appetizer/internal/model"
)

// Attribute dimensions used for category listings.
const (
	DimProtein = "protein"
	DimStarch  = "starch"
	DimCuisine = "cuisine"
	DimForm    = "form"
)

// Required spreadsheet columns. Optional: Protein, Starch, Cuisine, Form, Notes.
var requiredColumns = []string{"recipe", "meal", "min servings", "max servings"}

// Catalog is the read-only set of recipes for one run.
type Catalog struct {
	recipes []model.Recipe
	byName  map[string]int
}

// Load reads and validates the spreadsheet at path. An empty sheet name
// selects the first sheet. Validation failures return a
// *model.MalformedCatalogError naming the offending row.
func Load(path, sheet string) (*Catalog, error) {
	rows, err := readSheet(path, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &model.MalformedCatalogError{Reason: "sheet is empty"}
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	recipes := make([]model.Recipe, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header row
		if blankRow(row) {
			continue
		}
		r, err := parseRow(row, cols, rowNum)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}

	return New(recipes)
}

// New builds a catalog from already-parsed recipes, enforcing the
// non-empty and unique identifier invariants.
func New(recipes []model.Recipe) (*Catalog, error) {
	byName := make(map[string]int, len(recipes))
	for i, r := range recipes {
		if r.Name == "" {
			return nil, &model.MalformedCatalogError{Row: i + 2, Reason: "empty recipe name"}
		}
		if _, dup := byName[r.Name]; dup {
			return nil, &model.MalformedCatalogError{Row: i + 2, Reason: "duplicate recipe name " + strconv.Quote(r.Name)}
		}
		if r.MinServings > r.MaxServings {
			return nil, &model.MalformedCatalogError{Row: i + 2, Reason: "min servings exceeds max servings"}
		}
		byName[r.Name] = i
	}
	return &Catalog{recipes: recipes, byName: byName}, nil
}

// Len returns the number of recipes.
func (c *Catalog) Len() int { return len(c.recipes) }

// Lookup returns the recipe with the given identifier.
func (c *Catalog) Lookup(id string) (model.Recipe, error) {
	i, ok := c.byName[id]
	if !ok {
		return model.Recipe{}, &model.NotFoundError{RecipeID: id}
	}
	return c.recipes[i], nil
}

// Filter returns a lazy, restartable sequence of recipes matching pred,
// in catalog insertion order.
func (c *Catalog) Filter(pred func(model.Recipe) bool) iter.Seq[model.Recipe] {
	return func(yield func(model.Recipe) bool) {
		for _, r := range c.recipes {
			if !pred(r) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// Recipes returns a copy of all recipes in insertion order.
func (c *Catalog) Recipes() []model.Recipe {
	out := make([]model.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Names returns all recipe identifiers, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.recipes))
	for _, r := range c.recipes {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// Categories returns the distinct values of one attribute dimension,
// sorted, deduplicated case-insensitively.
func (c *Catalog) Categories(dim string) []string {
	seen := make(map[string]string)
	add := func(vals ...string) {
		for _, v := range vals {
			if v == "" {
				continue
			}
			key := strings.ToLower(v)
			if _, ok := seen[key]; !ok {
				seen[key] = v
			}
		}
	}
	for _, r := range c.recipes {
		switch dim {
		case DimProtein:
			add(r.Proteins...)
		case DimStarch:
			add(r.Starches...)
		case DimCuisine:
			add(r.Cuisine)
		case DimForm:
			add(r.Form)
		}
	}
	out := make([]string, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// resolveColumns maps header names to column indices, case-insensitively.
func resolveColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, req := range requiredColumns {
		if _, ok := cols[req]; !ok {
			return nil, &model.MalformedCatalogError{Reason: "missing required column " + strconv.Quote(req)}
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int, rowNum int) (model.Recipe, error) {
	name := strings.TrimSpace(cell(row, cols, "recipe"))
	if name == "" {
		return model.Recipe{}, &model.MalformedCatalogError{Row: rowNum, Reason: "empty recipe name"}
	}

	meals, err := parseMeals(cell(row, cols, "meal"), rowNum)
	if err != nil {
		return model.Recipe{}, err
	}

	minS, err := parsePositiveInt(cell(row, cols, "min servings"), "min servings", rowNum)
	if err != nil {
		return model.Recipe{}, err
	}
	maxS, err := parsePositiveInt(cell(row, cols, "max servings"), "max servings", rowNum)
	if err != nil {
		return model.Recipe{}, err
	}
	if minS > maxS {
		return model.Recipe{}, &model.MalformedCatalogError{Row: rowNum, Reason: "min servings exceeds max servings"}
	}

	return model.Recipe{
		Name:        name,
		Proteins:    splitSet(cell(row, cols, "protein")),
		Starches:    splitSet(cell(row, cols, "starch")),
		Cuisine:     strings.TrimSpace(cell(row, cols, "cuisine")),
		Form:        strings.TrimSpace(cell(row, cols, "form")),
		Meals:       meals,
		MinServings: minS,
		MaxServings: maxS,
		Notes:       strings.TrimSpace(cell(row, cols, "notes")),
	}, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// splitSet splits a comma-separated cell into a trimmed, deduplicated set,
// preserving first-seen order. Blank cells map to an empty set.
func splitSet(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		v := strings.TrimSpace(part)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func parseMeals(s string, rowNum int) ([]model.Meal, error) {
	parts := splitSet(s)
	if len(parts) == 0 {
		return nil, &model.MalformedCatalogError{Row: rowNum, Reason: "meal column is empty"}
	}
	meals := make([]model.Meal, 0, len(parts))
	for _, p := range parts {
		m, err := model.ParseMeal(p)
		if err != nil {
			return nil, &model.MalformedCatalogError{Row: rowNum, Reason: "unknown meal " + strconv.Quote(p)}
		}
		meals = append(meals, m)
	}
	return meals, nil
}

// parsePositiveInt accepts integer cells, tolerating the float rendering
// some spreadsheet tools produce for numeric cells ("4.0").
func parsePositiveInt(s, column string, rowNum int) (int, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, &model.MalformedCatalogError{Row: rowNum, Reason: column + " is empty"}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, &model.MalformedCatalogError{Row: rowNum, Reason: column + " is not an integer: " + strconv.Quote(s)}
		}
		n = int(f)
	}
	if n <= 0 {
		return 0, &model.MalformedCatalogError{Row: rowNum, Reason: column + " must be positive"}
	}
	return n, nil
}
