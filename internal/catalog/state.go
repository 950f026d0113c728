package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "all"

// Diet is one of the combinable dietary filters.
type Diet string

const (
	DietGlutenFree Diet = "gluten"
	DietVegetarian Diet = "vege"
	DietLarge      Diet = "grogros"
)

// Valid reports whether d is a known diet filter.
func (d Diet) Valid() bool {
	switch d {
	case DietGlutenFree, DietVegetarian, DietLarge:
		return true
	}
	return false
}

// SortMode selects the ordering of the view.
type SortMode string

const (
	SortTitleAsc  SortMode = "asc"
	SortTitleDesc SortMode = "desc"
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
)

// Valid reports whether m is a known sort mode.
func (m SortMode) Valid() bool {
	switch m {
	case SortTitleAsc, SortTitleDesc, SortNewest, SortOldest:
		return true
	}
	return false
}

// State is the set of filter, sort and page selections that drive a view.
// It is a value: every transition returns a new State and leaves the
// receiver untouched.
type State struct {
	Category       string   `json:"category"`
	TitleTerm      string   `json:"title"`
	IngredientTerm string   `json:"ingredient"`
	FavoritesOnly  bool     `json:"favorite"`
	Diets          []Diet   `json:"diets"`
	Sort           SortMode `json:"sort"`
	Page           int      `json:"page"`
}

// DefaultState is the state of a fresh session.
func DefaultState() State {
	return State{
		Category: CategoryAll,
		Diets:    []Diet{},
		Sort:     SortTitleAsc,
		Page:     1,
	}
}

// HasDiet reports whether d is active.
func (s State) HasDiet(d Diet) bool {
	for _, active := range s.Diets {
		if active == d {
			return true
		}
	}
	return false
}

// CategoryActive reports whether a category filter narrows the view.
func (s State) CategoryActive() bool {
	return s.Category != "" && s.Category != CategoryAll
}

// clone copies the diet set so transitions never share backing arrays.
func (s State) clone() State {
	diets := make([]Diet, len(s.Diets))
	copy(diets, s.Diets)
	s.Diets = diets
	return s
}

func (s State) filtered() State {
	next := s.clone()
	next.Page = 1
	return next
}

// WithCategory selects category; "" and CategoryAll clear it.
func (s State) WithCategory(category string) State {
	next := s.filtered()
	if category == "" {
		category = CategoryAll
	}
	next.Category = category
	return next
}

// ToggleCategory selects category, or clears it when it is already active.
func (s State) ToggleCategory(category string) State {
	if s.CategoryActive() && s.Category == category {
		return s.WithCategory(CategoryAll)
	}
	return s.WithCategory(category)
}

func (s State) WithTitleSearch(term string) State {
	next := s.filtered()
	next.TitleTerm = term
	return next
}

func (s State) WithIngredientSearch(term string) State {
	next := s.filtered()
	next.IngredientTerm = term
	return next
}

func (s State) WithFavoritesOnly(on bool) State {
	next := s.filtered()
	next.FavoritesOnly = on
	return next
}

// ToggleDiet switches d on or off. The diet set stays sorted.
func (s State) ToggleDiet(d Diet) State {
	next := s.filtered()
	if s.HasDiet(d) {
		kept := next.Diets[:0]
		for _, active := range next.Diets {
			if active != d {
				kept = append(kept, active)
			}
		}
		next.Diets = kept
		return next
	}
	next.Diets = append(next.Diets, d)
	sort.Slice(next.Diets, func(i, j int) bool { return next.Diets[i] < next.Diets[j] })
	return next
}

func (s State) WithSort(mode SortMode) State {
	next := s.filtered()
	next.Sort = mode
	return next
}

// WithPage moves to page without touching any filter. Clamping against the
// number of pages happens when the view is computed.
func (s State) WithPage(page int) State {
	next := s.clone()
	if page < 1 {
		page = 1
	}
	next.Page = page
	return next
}

// EventKind names a user interaction with the catalog controls.
type EventKind string

const (
	EventCategory   EventKind = "category"
	EventTitle      EventKind = "title"
	EventIngredient EventKind = "ingredient"
	EventFavorite   EventKind = "favorite"
	EventDiet       EventKind = "diet"
	EventSort       EventKind = "sort"
	EventPage       EventKind = "page"
	EventReset      EventKind = "reset"
)

// Event is a single interaction; Value is interpreted per Kind.
type Event struct {
	Kind  EventKind `json:"kind" binding:"required"`
	Value string    `json:"value"`
}

// Apply returns the state that results from e.
func (s State) Apply(e Event) (State, error) {
	switch e.Kind {
	case EventCategory:
		return s.ToggleCategory(e.Value), nil
	case EventTitle:
		return s.WithTitleSearch(e.Value), nil
	case EventIngredient:
		return s.WithIngredientSearch(e.Value), nil
	case EventFavorite:
		if e.Value == "" {
			return s.WithFavoritesOnly(!s.FavoritesOnly), nil
		}
		on, err := strconv.ParseBool(e.Value)
		if err != nil {
			return s, fmt.Errorf("invalid favorite value %q: %w", e.Value, err)
		}
		return s.WithFavoritesOnly(on), nil
	case EventDiet:
		d := Diet(strings.ToLower(e.Value))
		if !d.Valid() {
			return s, fmt.Errorf("unknown diet filter %q", e.Value)
		}
		return s.ToggleDiet(d), nil
	case EventSort:
		m := SortMode(strings.ToLower(e.Value))
		if !m.Valid() {
			return s, fmt.Errorf("unknown sort mode %q", e.Value)
		}
		return s.WithSort(m), nil
	case EventPage:
		page, err := strconv.Atoi(e.Value)
		if err != nil {
			return s, fmt.Errorf("invalid page %q: %w", e.Value, err)
		}
		return s.WithPage(page), nil
	case EventReset:
		return DefaultState(), nil
	default:
		return s, fmt.Errorf("unknown event kind %q", e.Kind)
	}
}
