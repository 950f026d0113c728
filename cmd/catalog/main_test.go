package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/config"
	"github.com/pageza/recipe-catalog/internal/testhelpers"
)

const recipesJSON = `[
	{"_id":"1","title":"Tarte","category":"dessert","ingredients":["farine","beurre"],"favorite":true},
	{"_id":"2","title":"Salade","category":"entrée","ingredients":["tomate"],"favorite":true},
	{"_id":"3","title":"Mousse","category":"dessert","ingredients":["chocolat","oeufs"],"favorite":true}
]`

func upstream(t *testing.T) *config.Config {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(recipesJSON))
	}))
	t.Cleanup(srv.Close)
	return &config.Config{
		UpstreamURL:     srv.URL + "/recipes",
		UpstreamTimeout: time.Second,
		Locale:          "fr",
		PageSize:        12,
		LargeThreshold:  8,
	}
}

func TestRunPrintsPage(t *testing.T) {
	cfg := upstream(t)
	var out bytes.Buffer

	err := run(context.Background(), []string{"-category", "dessert", "-favorite", "-diet", "gluten"}, cfg, &out, testhelpers.NullLogger())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Mousse")
	assert.NotContains(t, out.String(), "Tarte")
	assert.Contains(t, out.String(), "page 1/1, 1 recipes")
}

func TestRunZeroTimeoutUsesDefault(t *testing.T) {
	cfg := upstream(t)
	var out bytes.Buffer

	err := run(context.Background(), []string{"-timeout", "0"}, cfg, &out, testhelpers.NullLogger())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "page 1/1, 3 recipes")
}

func TestRunExportsCSV(t *testing.T) {
	cfg := upstream(t)
	path := filepath.Join(t.TempDir(), "catalog.csv")

	err := run(context.Background(), []string{"-sort", "desc", "-out", path}, cfg, &bytes.Buffer{}, testhelpers.NullLogger())
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Tarte", "Salade", "Mousse"}, []string{rows[1][0], rows[2][0], rows[3][0]})
}

func TestRunRejectsBadInput(t *testing.T) {
	cfg := upstream(t)
	log := testhelpers.NullLogger()

	assert.Error(t, run(context.Background(), []string{"-sort", "random"}, cfg, &bytes.Buffer{}, log))
	assert.Error(t, run(context.Background(), []string{"-out", "catalog.pdf"}, cfg, &bytes.Buffer{}, log))
	assert.Error(t, run(context.Background(), []string{"-upstream", "http://127.0.0.1:1/recipes"}, cfg, &bytes.Buffer{}, log))
}
