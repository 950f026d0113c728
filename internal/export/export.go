package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pageza/recipe-catalog/internal/catalog"
	"github.com/pageza/recipe-catalog/internal/model"
)

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

const sheet = "Recettes"

// Header is the column layout of every export.
var Header = []string{
	"title", "category", "time", "ingredients",
	"favorite", "gluten-free", "vegetarian", "large", "createdAt",
}

// ParseFormat accepts "csv" or "xlsx", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, XLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ForPath picks the format from a file name extension.
func ForPath(name string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Exporter writes recipe lists as spreadsheets. The dietary columns come
// from the same classifier the catalog filters with.
type Exporter struct {
	classifier *catalog.Classifier
}

// NewExporter creates an Exporter. A nil classifier selects the French default.
func NewExporter(classifier *catalog.Classifier) *Exporter {
	if classifier == nil {
		classifier = catalog.NewClassifier(catalog.FrenchKeywords, catalog.DefaultLargeThreshold)
	}
	return &Exporter{classifier: classifier}
}

// Write dispatches on f.
func (e *Exporter) Write(w io.Writer, f Format, recipes []model.Recipe) error {
	switch f {
	case CSV:
		return e.WriteCSV(w, recipes)
	case XLSX:
		return e.WriteXLSX(w, recipes)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

func (e *Exporter) row(r model.Recipe) []string {
	created := ""
	if !r.CreatedAt.IsZero() {
		created = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		r.Title,
		r.Category,
		r.Time,
		strings.Join(r.Ingredients, ", "),
		strconv.FormatBool(r.Favorite),
		strconv.FormatBool(e.classifier.GlutenFree(r)),
		strconv.FormatBool(e.classifier.Vegetarian(r)),
		strconv.FormatBool(e.classifier.Large(r)),
		created,
	}
}

// WriteCSV writes a header row and one row per recipe.
func (e *Exporter) WriteCSV(w io.Writer, recipes []model.Recipe) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range recipes {
		if err := cw.Write(e.row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook.
func (e *Exporter) WriteXLSX(w io.Writer, recipes []model.Recipe) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toCells(Header)); err != nil {
		return err
	}
	for i, r := range recipes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(e.row(r))); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
