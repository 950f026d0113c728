package catalog

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pageza/recipe-catalog/internal/model"
)

// DefaultPageSize is the number of cards per page.
const DefaultPageSize = 12

// View is the visible page of the catalog plus the metadata needed to draw
// pagination controls.
type View struct {
	Visible       []model.Recipe `json:"recipes"`
	TotalMatched  int            `json:"total"`
	TotalPages    int            `json:"pages"`
	EffectivePage int            `json:"page"`
}

// Pipeline turns the full recipe list and a State into a View. It holds no
// mutable state and is safe for concurrent use.
type Pipeline struct {
	classifier *Classifier
	pageSize   int
	tag        language.Tag
}

// NewPipeline builds a pipeline. pageSize < 1 selects DefaultPageSize.
func NewPipeline(classifier *Classifier, pageSize int, locale string) *Pipeline {
	if classifier == nil {
		classifier = NewClassifier(KeywordsFor(locale), DefaultLargeThreshold)
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.French
	}
	return &Pipeline{classifier: classifier, pageSize: pageSize, tag: tag}
}

var defaultPipeline = NewPipeline(nil, DefaultPageSize, "fr")

// ComputeView runs the default French pipeline.
func ComputeView(recipes []model.Recipe, state State) View {
	return defaultPipeline.Compute(recipes, state)
}

// Classifier returns the dietary classifier the pipeline filters with.
func (p *Pipeline) Classifier() *Classifier {
	return p.classifier
}

// PageSize returns the configured page size.
func (p *Pipeline) PageSize() int {
	return p.pageSize
}

// Compute filters, sorts and paginates. recipes is never modified.
func (p *Pipeline) Compute(recipes []model.Recipe, state State) View {
	matched := p.Matching(recipes, state)

	total := len(matched)
	pages := (total + p.pageSize - 1) / p.pageSize

	page := state.Page
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * p.pageSize
	end := start + p.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return View{
		Visible:       matched[start:end:end],
		TotalMatched:  total,
		TotalPages:    pages,
		EffectivePage: page,
	}
}

// Matching returns every recipe that passes the filters of state, sorted,
// without pagination. The result is a fresh slice.
func (p *Pipeline) Matching(recipes []model.Recipe, state State) []model.Recipe {
	titleTerm := strings.ToLower(state.TitleTerm)
	ingredientTerm := strings.ToLower(state.IngredientTerm)

	out := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if state.CategoryActive() && r.Category != state.Category {
			continue
		}
		if titleTerm != "" && !strings.Contains(strings.ToLower(r.Title), titleTerm) {
			continue
		}
		if ingredientTerm != "" && !anyIngredientContains(r.Ingredients, ingredientTerm) {
			continue
		}
		if state.FavoritesOnly && !r.Favorite {
			continue
		}
		if !p.passesDiets(r, state.Diets) {
			continue
		}
		out = append(out, r)
	}

	p.sort(out, state.Sort)
	return out
}

func (p *Pipeline) passesDiets(r model.Recipe, diets []Diet) bool {
	for _, d := range diets {
		if !p.classifier.Passes(r, d) {
			return false
		}
	}
	return true
}

func anyIngredientContains(ingredients model.Ingredients, term string) bool {
	for _, i := range ingredients {
		if strings.Contains(strings.ToLower(i), term) {
			return true
		}
	}
	return false
}

func (p *Pipeline) sort(recipes []model.Recipe, mode SortMode) {
	switch mode {
	case SortTitleDesc:
		// collators keep per-instance buffers, so each sort gets its own
		c := collate.New(p.tag)
		sort.SliceStable(recipes, func(i, j int) bool {
			return c.CompareString(recipes[j].Title, recipes[i].Title) < 0
		})
	case SortNewest:
		sort.SliceStable(recipes, func(i, j int) bool {
			return newer(recipes[i].CreatedAt, recipes[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(recipes, func(i, j int) bool {
			return older(recipes[i].CreatedAt, recipes[j].CreatedAt)
		})
	default:
		c := collate.New(p.tag)
		sort.SliceStable(recipes, func(i, j int) bool {
			return c.CompareString(recipes[i].Title, recipes[j].Title) < 0
		})
	}
}

// newer and older place recipes without a timestamp last.
func newer(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return !a.IsZero() && b.IsZero()
	}
	return a.After(b)
}

func older(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return !a.IsZero() && b.IsZero()
	}
	return a.Before(b)
}
