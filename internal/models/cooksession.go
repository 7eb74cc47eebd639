package models

import (
	"github.com/google/uuid"

	"github.com/cooklog/backend/internal/types"
)

// MealType classifies which meal a cook session was for.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealDessert   MealType = "dessert"
	MealOther     MealType = "other"
)

// CookMethod classifies how a cook session was cooked.
type CookMethod string

const (
	MethodStovetop  CookMethod = "stovetop"
	MethodOven      CookMethod = "oven"
	MethodGrill     CookMethod = "grill"
	MethodAirFryer  CookMethod = "air_fryer"
	MethodMicrowave CookMethod = "microwave"
	MethodNoCook    CookMethod = "no_cook"
	MethodOther     CookMethod = "other"
)

// CookSession is a single cooking event. It always belongs to a dish,
// which cannot be deleted while sessions reference it, and may record
// which recipe was used.
type CookSession struct {
	Model
	DishID          uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"dish_id"`
	RecipeUsedID    *uuid.UUID `gorm:"type:varchar(36)" json:"recipe_used_id"`
	CookedOn        types.Date `gorm:"index" json:"cooked_on"`
	MealType        MealType   `gorm:"size:20;default:'other'" json:"meal_type"`
	Method          CookMethod `gorm:"size:20;default:'other'" json:"method"`
	ServingsMade    *float64   `json:"servings_made"`
	DurationMinutes *int       `json:"duration_minutes"`
	Summary         string     `gorm:"size:280" json:"summary"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`

	Dish       *Dish   `gorm:"foreignKey:DishID;constraint:OnDelete:RESTRICT" json:"dish,omitempty"`
	RecipeUsed *Recipe `gorm:"foreignKey:RecipeUsedID;constraint:OnDelete:SET NULL" json:"recipe_used,omitempty"`
}
