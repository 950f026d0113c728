package catalog

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query parameter names shared by the view endpoints and the CLI.
const (
	QueryParamCategory   = "category"
	QueryParamTitle      = "title"
	QueryParamIngredient = "ingredient"
	QueryParamFavorite   = "favorite"
	QueryParamDiet       = "diet"
	QueryParamSort       = "sort"
	QueryParamPage       = "page"
)

// ParseState builds a State from query parameters. Unknown values are an
// error rather than silently ignored. diet may be repeated or comma separated.
func ParseState(q url.Values) (State, error) {
	s := DefaultState()

	if c := q.Get(QueryParamCategory); c != "" {
		s.Category = c
	}
	s.TitleTerm = q.Get(QueryParamTitle)
	s.IngredientTerm = q.Get(QueryParamIngredient)

	if f := q.Get(QueryParamFavorite); f != "" {
		on, err := strconv.ParseBool(f)
		if err != nil {
			return s, fmt.Errorf("invalid %s value %q", QueryParamFavorite, f)
		}
		s.FavoritesOnly = on
	}

	seen := map[Diet]bool{}
	for _, raw := range q[QueryParamDiet] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(strings.ToLower(part))
			if part == "" {
				continue
			}
			d := Diet(part)
			if !d.Valid() {
				return s, fmt.Errorf("unknown diet filter %q", part)
			}
			if !seen[d] {
				seen[d] = true
				s.Diets = append(s.Diets, d)
			}
		}
	}
	sort.Slice(s.Diets, func(i, j int) bool { return s.Diets[i] < s.Diets[j] })

	if m := q.Get(QueryParamSort); m != "" {
		mode := SortMode(strings.ToLower(m))
		if !mode.Valid() {
			return s, fmt.Errorf("unknown sort mode %q", m)
		}
		s.Sort = mode
	}

	if p := q.Get(QueryParamPage); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			return s, fmt.Errorf("invalid %s value %q", QueryParamPage, p)
		}
		s = s.WithPage(page)
	}

	return s, nil
}

// Values encodes s so that ParseState(s.Values()) reproduces it.
func (s State) Values() url.Values {
	q := url.Values{}
	if s.CategoryActive() {
		q.Set(QueryParamCategory, s.Category)
	}
	if s.TitleTerm != "" {
		q.Set(QueryParamTitle, s.TitleTerm)
	}
	if s.IngredientTerm != "" {
		q.Set(QueryParamIngredient, s.IngredientTerm)
	}
	if s.FavoritesOnly {
		q.Set(QueryParamFavorite, "true")
	}
	if len(s.Diets) > 0 {
		parts := make([]string, len(s.Diets))
		for i, d := range s.Diets {
			parts[i] = string(d)
		}
		q.Set(QueryParamDiet, strings.Join(parts, ","))
	}
	if s.Sort != "" && s.Sort != SortTitleAsc {
		q.Set(QueryParamSort, string(s.Sort))
	}
	if s.Page > 1 {
		q.Set(QueryParamPage, strconv.Itoa(s.Page))
	}
	return q
}
