package model

import (
	"time"
)

// RecipeRecord is one row of the last-known-good snapshot of the store's list.
type RecipeRecord struct {
	Position        int         `gorm:"primaryKey;autoIncrement:false" json:"position"`
	RecipeID        string      `gorm:"size:64;not null;index" json:"recipe_id"`
	Title           string      `gorm:"size:255;not null" json:"title"`
	Category        string      `gorm:"size:50;index" json:"category"`
	Time            string      `gorm:"size:50" json:"time"`
	Ingredients     Ingredients `gorm:"type:text" json:"ingredients"`
	Description     string      `gorm:"type:text" json:"description"`
	Image           string      `gorm:"size:512" json:"image"`
	Favorite        bool        `json:"favorite"`
	Gluten          *bool       `json:"gluten"`
	Vege            *bool       `json:"vege"`
	Grogros         *bool       `json:"grogros"`
	RecipeCreatedAt time.Time   `json:"recipe_created_at"`
	SavedAt         time.Time   `gorm:"autoCreateTime" json:"saved_at"`
}

func (RecipeRecord) TableName() string {
	return "recipe_snapshots"
}

// NewRecipeRecord captures r at position pos of the list.
func NewRecipeRecord(pos int, r Recipe) RecipeRecord {
	return RecipeRecord{
		Position:        pos,
		RecipeID:        r.ID,
		Title:           r.Title,
		Category:        r.Category,
		Time:            r.Time,
		Ingredients:     r.Ingredients,
		Description:     r.Description,
		Image:           r.Image,
		Favorite:        r.Favorite,
		Gluten:          r.Gluten,
		Vege:            r.Vege,
		Grogros:         r.Grogros,
		RecipeCreatedAt: r.CreatedAt,
	}
}

// Recipe converts the row back to the wire shape.
func (rec RecipeRecord) Recipe() Recipe {
	return Recipe{
		ID:          rec.RecipeID,
		Title:       rec.Title,
		Category:    rec.Category,
		Time:        rec.Time,
		Ingredients: rec.Ingredients,
		Description: rec.Description,
		Image:       rec.Image,
		Favorite:    rec.Favorite,
		CreatedAt:   rec.RecipeCreatedAt,
		Gluten:      rec.Gluten,
		Vege:        rec.Vege,
		Grogros:     rec.Grogros,
	}
}
