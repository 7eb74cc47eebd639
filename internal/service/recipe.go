package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/models"
)

// RecipeFilter narrows a recipe listing.
type RecipeFilter struct {
	Query        string
	FavoriteOnly bool
	InactiveOnly bool
	Page         int
	PerPage      int
}

// RecipeService handles recipe CRUD. Every query runs under the
// ownership predicate.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// List returns a page of visible recipes plus the total match count.
func (s *RecipeService) List(ctx context.Context, userID uuid.UUID, filter RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(models.OwnedBy(userID))

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	if filter.FavoriteOnly {
		query = query.Where("is_favorite = ?", true)
	}
	if filter.InactiveOnly {
		query = query.Where("is_active = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	page, perPage := pageBounds(filter.Page, filter.PerPage, 20)
	err := query.Order("updated_at DESC, title ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// Get returns one visible recipe.
func (s *RecipeService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Create persists a new recipe, stamping the creator when unset.
func (s *RecipeService) Create(ctx context.Context, userID uuid.UUID, recipe *models.Recipe) error {
	recipe.SetOwner(userID)
	return s.db.WithContext(ctx).Create(recipe).Error
}

// Save persists changes to a recipe previously loaded through Get.
func (s *RecipeService) Save(ctx context.Context, userID uuid.UUID, recipe *models.Recipe) error {
	recipe.SetOwner(userID)
	return s.db.WithContext(ctx).Save(recipe).Error
}

// Delete removes a visible recipe. References from dishes and cook
// sessions are nullified, never cascaded.
func (s *RecipeService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Dish{}).
			Where("default_recipe_id = ?", recipe.ID).
			Update("default_recipe_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.CookSession{}).
			Where("recipe_used_id = ?", recipe.ID).
			Update("recipe_used_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
}

func pageBounds(page, perPage, defaultPerPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = defaultPerPage
	}
	return page, perPage
}
