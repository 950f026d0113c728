package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/internal/model"
)

// RunMigrations creates or updates the snapshot schema.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.RecipeRecord{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", model.RecipeRecord{}.TableName(), err)
	}
	return nil
}
