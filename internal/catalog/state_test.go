package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterChangesResetPage(t *testing.T) {
	onPage3 := DefaultState().WithPage(3)

	transitions := map[string]State{
		"category":   onPage3.WithCategory("dessert"),
		"toggle":     onPage3.ToggleCategory("plat"),
		"title":      onPage3.WithTitleSearch("tarte"),
		"ingredient": onPage3.WithIngredientSearch("farine"),
		"favorite":   onPage3.WithFavoritesOnly(true),
		"diet":       onPage3.ToggleDiet(DietVegetarian),
		"sort":       onPage3.WithSort(SortNewest),
	}
	for name, s := range transitions {
		assert.Equal(t, 1, s.Page, name)
	}
	assert.Equal(t, 3, onPage3.Page)
}

func TestWithPageKeepsFilters(t *testing.T) {
	s := DefaultState().WithCategory("dessert").ToggleDiet(DietGlutenFree).WithTitleSearch("ta")
	next := s.WithPage(2)

	assert.Equal(t, 2, next.Page)
	assert.Equal(t, "dessert", next.Category)
	assert.Equal(t, "ta", next.TitleTerm)
	assert.Equal(t, []Diet{DietGlutenFree}, next.Diets)

	assert.Equal(t, 1, s.WithPage(-4).Page)
}

func TestToggleCategory(t *testing.T) {
	s := DefaultState().ToggleCategory("dessert")
	assert.Equal(t, "dessert", s.Category)

	s = s.ToggleCategory("plat")
	assert.Equal(t, "plat", s.Category)

	s = s.ToggleCategory("plat")
	assert.Equal(t, CategoryAll, s.Category)
	assert.False(t, s.CategoryActive())
}

func TestToggleDietDoesNotShareDietSet(t *testing.T) {
	base := DefaultState().ToggleDiet(DietVegetarian)
	withGluten := base.ToggleDiet(DietGlutenFree)
	withoutVege := withGluten.ToggleDiet(DietVegetarian)

	assert.Equal(t, []Diet{DietVegetarian}, base.Diets)
	assert.Equal(t, []Diet{DietGlutenFree, DietVegetarian}, withGluten.Diets)
	assert.Equal(t, []Diet{DietGlutenFree}, withoutVege.Diets)
}

func TestApplyEvents(t *testing.T) {
	s := DefaultState()
	var err error

	s, err = s.Apply(Event{Kind: EventCategory, Value: "dessert"})
	require.NoError(t, err)
	s, err = s.Apply(Event{Kind: EventDiet, Value: "GLUTEN"})
	require.NoError(t, err)
	s, err = s.Apply(Event{Kind: EventFavorite})
	require.NoError(t, err)
	s, err = s.Apply(Event{Kind: EventSort, Value: "desc"})
	require.NoError(t, err)
	s, err = s.Apply(Event{Kind: EventPage, Value: "2"})
	require.NoError(t, err)

	assert.Equal(t, "dessert", s.Category)
	assert.True(t, s.HasDiet(DietGlutenFree))
	assert.True(t, s.FavoritesOnly)
	assert.Equal(t, SortTitleDesc, s.Sort)
	assert.Equal(t, 2, s.Page)

	s, err = s.Apply(Event{Kind: EventFavorite, Value: "false"})
	require.NoError(t, err)
	assert.False(t, s.FavoritesOnly)
	assert.Equal(t, 1, s.Page)

	s, err = s.Apply(Event{Kind: EventReset})
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), s)
}

func TestApplyRejectsBadEvents(t *testing.T) {
	s := DefaultState().WithCategory("plat")
	bad := []Event{
		{Kind: "wiggle"},
		{Kind: EventDiet, Value: "keto"},
		{Kind: EventSort, Value: "random"},
		{Kind: EventPage, Value: "two"},
		{Kind: EventFavorite, Value: "maybe"},
	}
	for _, e := range bad {
		next, err := s.Apply(e)
		assert.Error(t, err, e.Kind)
		assert.Equal(t, s, next)
	}
}

func TestParseState(t *testing.T) {
	q := url.Values{
		"category":   {"dessert"},
		"title":      {"Tar"},
		"ingredient": {"farine"},
		"favorite":   {"1"},
		"diet":       {"vege,gluten", "vege"},
		"sort":       {"NEWEST"},
		"page":       {"3"},
	}
	s, err := ParseState(q)
	require.NoError(t, err)

	assert.Equal(t, State{
		Category:       "dessert",
		TitleTerm:      "Tar",
		IngredientTerm: "farine",
		FavoritesOnly:  true,
		Diets:          []Diet{DietGlutenFree, DietVegetarian},
		Sort:           SortNewest,
		Page:           3,
	}, s)

	back, err := ParseState(s.Values())
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestParseStateDefaults(t *testing.T) {
	s, err := ParseState(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), s)
	assert.Empty(t, s.Values())
}

func TestParseStateErrors(t *testing.T) {
	for _, q := range []url.Values{
		{"favorite": {"yes please"}},
		{"diet": {"paleo"}},
		{"sort": {"price"}},
		{"page": {"last"}},
	} {
		_, err := ParseState(q)
		assert.Error(t, err, q.Encode())
	}
}
