package catalog

import (
	"strings"

	"github.com/pageza/recipe-catalog/internal/model"
)

// DefaultLargeThreshold is the ingredient count from which a recipe counts as large.
const DefaultLargeThreshold = 8

// KeywordTable lists, for one language, the ingredient fragments that rule a
// recipe out of a dietary filter.
type KeywordTable struct {
	Locale string
	Gluten []string
	Meat   []string
}

// FrenchKeywords matches the catalog's original French ingredient vocabulary.
var FrenchKeywords = KeywordTable{
	Locale: "fr",
	Gluten: []string{"blé", "farine", "pâte", "pâtes", "biscuit", "pain"},
	Meat:   []string{"viande", "poulet", "poisson", "boeuf", "porc", "dinde", "agneau"},
}

var EnglishKeywords = KeywordTable{
	Locale: "en",
	Gluten: []string{"wheat", "flour", "pasta", "dough", "bread", "biscuit", "barley", "rye"},
	Meat:   []string{"meat", "beef", "chicken", "fish", "pork", "lamb", "turkey", "bacon", "ham"},
}

// KeywordsFor returns the table for locale, falling back to French.
func KeywordsFor(locale string) KeywordTable {
	switch strings.ToLower(locale) {
	case "en", "en-us", "en-gb":
		return EnglishKeywords
	default:
		return FrenchKeywords
	}
}

// Classifier answers the dietary questions. An explicit flag on the recipe
// always wins over the keyword heuristic, whatever its value.
type Classifier struct {
	gluten         []string
	meat           []string
	largeThreshold int
}

// NewClassifier lower-cases the table once. A threshold < 1 selects the default.
func NewClassifier(table KeywordTable, largeThreshold int) *Classifier {
	if largeThreshold < 1 {
		largeThreshold = DefaultLargeThreshold
	}
	return &Classifier{
		gluten:         lowerAll(table.Gluten),
		meat:           lowerAll(table.Meat),
		largeThreshold: largeThreshold,
	}
}

// GlutenFree reports whether r passes the gluten-free filter.
func (c *Classifier) GlutenFree(r model.Recipe) bool {
	if r.Gluten != nil {
		return *r.Gluten
	}
	return c.noneMatch(r.Ingredients, c.gluten)
}

// Vegetarian reports whether r passes the vegetarian filter.
func (c *Classifier) Vegetarian(r model.Recipe) bool {
	if r.Vege != nil {
		return *r.Vege
	}
	return c.noneMatch(r.Ingredients, c.meat)
}

// Large reports whether r passes the "grogros" filter.
func (c *Classifier) Large(r model.Recipe) bool {
	if r.Grogros != nil {
		return *r.Grogros
	}
	return r.Ingredients.Valid() && len(r.Ingredients) >= c.largeThreshold
}

// Passes reports whether r satisfies diet d.
func (c *Classifier) Passes(r model.Recipe, d Diet) bool {
	switch d {
	case DietGlutenFree:
		return c.GlutenFree(r)
	case DietVegetarian:
		return c.Vegetarian(r)
	case DietLarge:
		return c.Large(r)
	}
	return false
}

// noneMatch is false for a missing ingredient list: nothing can be proven.
func (c *Classifier) noneMatch(ingredients model.Ingredients, keywords []string) bool {
	if !ingredients.Valid() {
		return false
	}
	// newline never appears in a keyword, so matches cannot span two ingredients
	text := strings.ToLower(strings.Join(ingredients, "\n"))
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
