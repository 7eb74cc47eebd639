package models

import "github.com/google/uuid"

// Dish is a conceptual thing you cook ("Oven Bacon", "Hoppin John");
// cook sessions record each time you make it. A dish name is unique per
// owner, enforced by a unique index created during migration.
type Dish struct {
	Model
	Name            string     `gorm:"size:200;not null;index" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	DefaultRecipeID *uuid.UUID `gorm:"type:varchar(36)" json:"default_recipe_id"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`

	DefaultRecipe *Recipe `gorm:"foreignKey:DefaultRecipeID;constraint:OnDelete:SET NULL" json:"default_recipe,omitempty"`
}

// DishWithSessions is a dish list row annotated with how many cook
// sessions reference it.
type DishWithSessions struct {
	Dish
	SessionCount int64 `json:"session_count"`
}
