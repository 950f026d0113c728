package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/internal/model"
)

// SnapshotRepository persists the last recipe list fetched successfully from
// the store, so a restart with the store down still serves a catalog.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new SnapshotRepository instance
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save replaces the stored snapshot with recipes in a single transaction.
func (r *SnapshotRepository) Save(ctx context.Context, recipes []model.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.RecipeRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		if len(recipes) == 0 {
			return nil
		}

		records := make([]model.RecipeRecord, len(recipes))
		for i, recipe := range recipes {
			records[i] = model.NewRecipeRecord(i+1, recipe)
		}
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		return nil
	})
}

// Load returns the snapshot in the store's original order.
func (r *SnapshotRepository) Load(ctx context.Context) ([]model.Recipe, error) {
	var records []model.RecipeRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	recipes := make([]model.Recipe, len(records))
	for i, rec := range records {
		recipes[i] = rec.Recipe()
	}
	return recipes, nil
}

// Count returns the number of recipes in the snapshot.
func (r *SnapshotRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.RecipeRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count snapshot: %w", err)
	}
	return n, nil
}
