// Command catalog prints one page of the recipe catalog, or exports the
// whole filtered set to a .csv or .xlsx file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-catalog/config"
	"github.com/pageza/recipe-catalog/internal/catalog"
	"github.com/pageza/recipe-catalog/internal/client"
	"github.com/pageza/recipe-catalog/internal/export"
	"github.com/pageza/recipe-catalog/internal/model"
)

// defaultTimeout matches the client's own fallback for a zero timeout.
const defaultTimeout = 10 * time.Second

type options struct {
	upstream   string
	timeout    time.Duration
	locale     string
	pageSize   int
	threshold  int
	category   string
	title      string
	ingredient string
	favorite   bool
	diets      string
	sort       string
	page       int
	out        string
}

func parseFlags(args []string, cfg *config.Config) (options, error) {
	var o options
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.StringVar(&o.upstream, "upstream", cfg.UpstreamURL, "Recipe store URL")
	fs.DurationVar(&o.timeout, "timeout", cfg.UpstreamTimeout, "Upstream request timeout")
	fs.StringVar(&o.locale, "locale", cfg.Locale, "Collation and keyword locale (fr, en)")
	fs.IntVar(&o.pageSize, "page-size", cfg.PageSize, "Recipes per page")
	fs.IntVar(&o.threshold, "large", cfg.LargeThreshold, "Ingredient count from which a recipe is large")
	fs.StringVar(&o.category, "category", "", "Category filter")
	fs.StringVar(&o.title, "title", "", "Title search")
	fs.StringVar(&o.ingredient, "ingredient", "", "Ingredient search")
	fs.BoolVar(&o.favorite, "favorite", false, "Favorites only")
	fs.StringVar(&o.diets, "diet", "", "Comma separated diet filters (gluten, vege, grogros)")
	fs.StringVar(&o.sort, "sort", string(catalog.SortTitleAsc), "Sort mode (asc, desc, newest, oldest)")
	fs.IntVar(&o.page, "page", 1, "Page to print")
	fs.StringVar(&o.out, "out", "", "Export every match to this .csv or .xlsx file instead of printing a page")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// state goes through ParseState so the CLI accepts exactly what the API does.
func (o options) state() (catalog.State, error) {
	q := url.Values{}
	q.Set(catalog.QueryParamCategory, o.category)
	q.Set(catalog.QueryParamTitle, o.title)
	q.Set(catalog.QueryParamIngredient, o.ingredient)
	q.Set(catalog.QueryParamFavorite, strconv.FormatBool(o.favorite))
	q.Set(catalog.QueryParamDiet, o.diets)
	q.Set(catalog.QueryParamSort, o.sort)
	q.Set(catalog.QueryParamPage, strconv.Itoa(o.page))
	return catalog.ParseState(q)
}

func run(ctx context.Context, args []string, cfg *config.Config, stdout io.Writer, log logrus.FieldLogger) error {
	o, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}
	state, err := o.state()
	if err != nil {
		return err
	}

	var format export.Format
	if o.out != "" {
		if format, err = export.ForPath(o.out); err != nil {
			return err
		}
	}

	if o.timeout <= 0 {
		o.timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout*3)
	defer cancel()
	recipes, err := client.New(o.upstream, o.timeout).ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch recipes: %w", err)
	}
	log.WithField("recipes", len(recipes)).Debug("recipes fetched")

	classifier := catalog.NewClassifier(catalog.KeywordsFor(o.locale), o.threshold)
	pipeline := catalog.NewPipeline(classifier, o.pageSize, o.locale)

	if o.out != "" {
		return writeExport(o.out, format, export.NewExporter(classifier), pipeline.Matching(recipes, state))
	}
	printView(stdout, pipeline.Compute(recipes, state))
	return nil
}

func writeExport(path string, format export.Format, exporter *export.Exporter, recipes []model.Recipe) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exporter.Write(f, format, recipes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printView(w io.Writer, view catalog.View) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tCATEGORY\tTIME\tFAV\tINGREDIENTS")
	for _, r := range view.Visible {
		fav := ""
		if r.Favorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Title, r.Category, r.Time, fav, strings.Join(r.Ingredients, ", "))
	}
	tw.Flush()
	fmt.Fprintf(w, "\npage %d/%d, %d recipes\n", view.EffectivePage, view.TotalPages, view.TotalMatched)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := cfg.NewLogger()
	log.SetOutput(os.Stderr)

	if err := run(context.Background(), os.Args[1:], cfg, os.Stdout, log); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
