package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-catalog/internal/catalog"
	"github.com/pageza/recipe-catalog/internal/client"
	"github.com/pageza/recipe-catalog/internal/model"
)

// ICatalogService defines the interface for catalog operations
type ICatalogService interface {
	Refresh(ctx context.Context) error
	View(state catalog.State) catalog.View
	Matching(state catalog.State) []model.Recipe
	Recipes() []model.Recipe
	LastRefresh() time.Time
	Get(ctx context.Context, id string) (*model.Recipe, error)
	Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error)
	Update(ctx context.Context, id string, in model.RecipeInput) error
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) error
}

// Snapshotter persists the last good recipe list.
type Snapshotter interface {
	Save(ctx context.Context, recipes []model.Recipe) error
	Load(ctx context.Context) ([]model.Recipe, error)
}

// CatalogService keeps the current recipe list in memory and computes views
// over it. Writes pass through to the upstream store and then refresh.
type CatalogService struct {
	store     client.Store
	pipeline  *catalog.Pipeline
	snapshots Snapshotter
	policy    *bluemonday.Policy
	log       logrus.FieldLogger

	mu          sync.RWMutex
	recipes     []model.Recipe
	lastRefresh time.Time
}

// NewCatalogService creates a new CatalogService instance. snapshots may be nil.
func NewCatalogService(store client.Store, pipeline *catalog.Pipeline, snapshots Snapshotter, log logrus.FieldLogger) *CatalogService {
	if pipeline == nil {
		pipeline = catalog.NewPipeline(nil, catalog.DefaultPageSize, "")
	}
	if log == nil {
		log = logrus.New()
	}
	return &CatalogService{
		store:     store,
		pipeline:  pipeline,
		snapshots: snapshots,
		policy:    bluemonday.StrictPolicy(),
		log:       log.WithField("component", "catalog"),
	}
}

// Refresh replaces the in-memory list with the upstream one. On failure the
// previous list stays in place.
func (s *CatalogService) Refresh(ctx context.Context) error {
	start := time.Now()
	recipes, err := client.ListAll(ctx, s.store)
	if err != nil {
		s.log.WithError(err).Warn("refresh failed, keeping previous recipe list")
		return fmt.Errorf("failed to refresh recipes: %w", err)
	}

	s.replace(recipes)
	s.log.WithFields(logrus.Fields{
		"recipes":  len(recipes),
		"duration": time.Since(start).String(),
	}).Info("recipe list refreshed")

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, recipes); err != nil {
			s.log.WithError(err).Error("failed to save snapshot")
		}
	}
	return nil
}

// Warm loads the last saved snapshot. It is meant to run once at startup,
// before the first Refresh.
func (s *CatalogService) Warm(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	recipes, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	s.replace(recipes)
	s.log.WithField("recipes", len(recipes)).Info("recipe list warmed from snapshot")
	return nil
}

func (s *CatalogService) replace(recipes []model.Recipe) {
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	s.mu.Lock()
	s.recipes = recipes
	s.lastRefresh = time.Now()
	s.mu.Unlock()
}

func (s *CatalogService) current() []model.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipes
}

// View computes the visible page for state.
func (s *CatalogService) View(state catalog.State) catalog.View {
	return s.pipeline.Compute(s.current(), state)
}

// Matching returns the whole filtered and sorted set for state.
func (s *CatalogService) Matching(state catalog.State) []model.Recipe {
	return s.pipeline.Matching(s.current(), state)
}

// Recipes returns a copy of the current list.
func (s *CatalogService) Recipes() []model.Recipe {
	current := s.current()
	out := make([]model.Recipe, len(current))
	copy(out, current)
	return out
}

// LastRefresh reports when the list was last replaced.
func (s *CatalogService) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// Get reads one recipe straight from the store.
func (s *CatalogService) Get(ctx context.Context, id string) (*model.Recipe, error) {
	return s.store.Get(ctx, id)
}

// Create adds a recipe upstream and refreshes.
func (s *CatalogService) Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error) {
	created, err := s.store.Create(ctx, s.sanitize(in))
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	s.refreshAfterWrite(ctx)
	return created, nil
}

// Update replaces a recipe upstream and refreshes.
func (s *CatalogService) Update(ctx context.Context, id string, in model.RecipeInput) error {
	if err := s.store.Update(ctx, id, s.sanitize(in)); err != nil {
		return fmt.Errorf("failed to update recipe %s: %w", id, err)
	}
	s.refreshAfterWrite(ctx)
	return nil
}

// Delete removes a recipe upstream and refreshes.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	s.refreshAfterWrite(ctx)
	return nil
}

// ToggleFavorite flips the favorite flag upstream and refreshes.
func (s *CatalogService) ToggleFavorite(ctx context.Context, id string) error {
	if err := s.store.ToggleFavorite(ctx, id); err != nil {
		return fmt.Errorf("failed to toggle favorite on %s: %w", id, err)
	}
	s.refreshAfterWrite(ctx)
	return nil
}

// The write already succeeded, so a failed refresh is only logged.
func (s *CatalogService) refreshAfterWrite(ctx context.Context) {
	_ = s.Refresh(ctx)
}

func (s *CatalogService) sanitize(in model.RecipeInput) model.RecipeInput {
	in.Title = s.clean(in.Title)
	in.Category = s.clean(in.Category)
	in.Time = s.clean(in.Time)
	in.Description = s.clean(in.Description)
	in.Image = strings.TrimSpace(in.Image)
	if in.Ingredients != nil {
		ingredients := make(model.Ingredients, 0, len(in.Ingredients))
		for _, ing := range in.Ingredients {
			if ing = s.clean(ing); ing != "" {
				ingredients = append(ingredients, ing)
			}
		}
		in.Ingredients = ingredients
	}
	return in
}

// maxSanitizePasses bounds how many layers of entity escaping clean unwraps.
const maxSanitizePasses = 4

// textEntities are the escapes that stay harmless as plain characters.
var textEntities = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`)

// clean strips markup and returns plain text. Entity-escaped markup is
// unescaped and sanitized again until the output is stable, so it can never
// come back as a tag. Only &, ' and " are restored afterwards.
func (s *CatalogService) clean(text string) string {
	out := s.policy.Sanitize(text)
	for i := 0; i < maxSanitizePasses; i++ {
		next := s.policy.Sanitize(html.UnescapeString(out))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(textEntities.Replace(out))
}
