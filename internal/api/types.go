package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cooklog/backend/internal/models"
	"github.com/cooklog/backend/internal/service"
	"github.com/cooklog/backend/internal/types"
)

// Request bodies. Validation happens through gin's binding tags; a
// failed binding is surfaced as a 400 with the validator's message.

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RecipeRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description"`
	Author       string `json:"author" binding:"max=200"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	YieldText    string `json:"yield_text" binding:"max=100"`
	PrepMinutes  *int   `json:"prep_minutes" binding:"omitempty,min=0"`
	CookMinutes  *int   `json:"cook_minutes" binding:"omitempty,min=0"`
	IsFavorite   bool   `json:"is_favorite"`
	IsActive     *bool  `json:"is_active"`
}

// Apply copies the request onto a recipe. A nil is_active means "leave
// the default" on create and "keep as sent" semantics reduce to true.
func (r *RecipeRequest) Apply(recipe *models.Recipe) {
	recipe.Title = r.Title
	recipe.Description = r.Description
	recipe.Author = r.Author
	recipe.Ingredients = r.Ingredients
	recipe.Instructions = r.Instructions
	recipe.YieldText = r.YieldText
	recipe.PrepMinutes = r.PrepMinutes
	recipe.CookMinutes = r.CookMinutes
	recipe.IsFavorite = r.IsFavorite
	recipe.IsActive = r.IsActive == nil || *r.IsActive
}

type DishRequest struct {
	Name            string     `json:"name" binding:"required,max=200"`
	Description     string     `json:"description"`
	DefaultRecipeID *uuid.UUID `json:"default_recipe_id"`
	IsActive        *bool      `json:"is_active"`
}

func (r *DishRequest) Apply(dish *models.Dish) {
	dish.Name = r.Name
	dish.Description = r.Description
	dish.DefaultRecipeID = r.DefaultRecipeID
	dish.IsActive = r.IsActive == nil || *r.IsActive
}

type SessionRequest struct {
	DishID          uuid.UUID  `json:"dish_id" binding:"required"`
	RecipeUsedID    *uuid.UUID `json:"recipe_used_id"`
	CookedOn        types.Date `json:"cooked_on"`
	MealType        string     `json:"meal_type" binding:"omitempty,oneof=breakfast lunch dinner snack dessert other"`
	Method          string     `json:"method" binding:"omitempty,oneof=stovetop oven grill air_fryer microwave no_cook other"`
	ServingsMade    *float64   `json:"servings_made" binding:"omitempty,min=0"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=0"`
	Summary         string     `json:"summary" binding:"max=280"`
	IsActive        *bool      `json:"is_active"`
}

func (r *SessionRequest) Apply(session *models.CookSession) {
	session.DishID = r.DishID
	session.RecipeUsedID = r.RecipeUsedID
	session.CookedOn = r.CookedOn
	session.MealType = models.MealOther
	if r.MealType != "" {
		session.MealType = models.MealType(r.MealType)
	}
	session.Method = models.MethodOther
	if r.Method != "" {
		session.Method = models.CookMethod(r.Method)
	}
	session.ServingsMade = r.ServingsMade
	session.DurationMinutes = r.DurationMinutes
	session.Summary = r.Summary
	session.IsActive = r.IsActive == nil || *r.IsActive
}

type ResultRequest struct {
	Outcome          string `json:"outcome" binding:"omitempty,oneof=nailed_it good okay fail experiment"`
	OverallRating    *int   `json:"overall_rating" binding:"omitempty,min=1,max=10"`
	TasteRating      *int   `json:"taste_rating" binding:"omitempty,min=1,max=10"`
	TextureRating    *int   `json:"texture_rating" binding:"omitempty,min=1,max=10"`
	AppearanceRating *int   `json:"appearance_rating" binding:"omitempty,min=1,max=10"`
	WouldMakeAgain   bool   `json:"would_make_again"`
	WhatWorked       string `json:"what_worked"`
	WhatToChange     string `json:"what_to_change"`
	NextTimePlan     string `json:"next_time_plan"`
}

func (r *ResultRequest) Apply(result *models.CookResult) {
	result.Outcome = models.OutcomeExperiment
	if r.Outcome != "" {
		result.Outcome = models.Outcome(r.Outcome)
	}
	result.OverallRating = r.OverallRating
	result.TasteRating = r.TasteRating
	result.TextureRating = r.TextureRating
	result.AppearanceRating = r.AppearanceRating
	result.WouldMakeAgain = r.WouldMakeAgain
	result.WhatWorked = r.WhatWorked
	result.WhatToChange = r.WhatToChange
	result.NextTimePlan = r.NextTimePlan
}

type NoteRequest struct {
	Title    string `json:"title" binding:"max=200"`
	Body     string `json:"body" binding:"required"`
	IsPinned bool   `json:"is_pinned"`
}

type URLRequest struct {
	Kind        string `json:"kind" binding:"omitempty,oneof=recipe video product article other"`
	Title       string `json:"title" binding:"max=200"`
	URL         string `json:"url" binding:"required,url"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order" binding:"omitempty,min=0"`
	IsPrimary   bool   `json:"is_primary"`
}

// ImageForm is the multipart form accompanying an image upload; the
// file itself arrives in the "image" part.
type ImageForm struct {
	Caption   string `form:"caption" binding:"max=300"`
	AltText   string `form:"alt_text" binding:"max=300"`
	TakenAt   string `form:"taken_at"`
	SortOrder int    `form:"sort_order" binding:"omitempty,min=0"`
	IsCover   bool   `form:"is_cover"`
}

// PDFForm is the multipart form accompanying a PDF upload; the file
// itself arrives in the "pdf" part.
type PDFForm struct {
	Kind        string `form:"kind" binding:"omitempty,oneof=recipe reference instructions other"`
	Title       string `form:"title" binding:"max=200"`
	Description string `form:"description"`
	PageCount   *int   `form:"page_count" binding:"omitempty,min=0"`
	SortOrder   int    `form:"sort_order" binding:"omitempty,min=0"`
}

// handleServiceError maps service sentinels onto HTTP statuses: not
// found and allow-list misses are 404, conflicts are 409, everything
// unexpected is a 500 with the details kept to the server log.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrDishInUse),
		errors.Is(err, service.ErrDuplicateDish),
		errors.Is(err, service.ErrUserHasRecords),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
