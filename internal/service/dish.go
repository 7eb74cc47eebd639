package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/models"
)

// DishFilter narrows a dish listing.
type DishFilter struct {
	Query        string
	InactiveOnly bool
	Page         int
	PerPage      int
}

// DishService handles dish CRUD. Dish names are unique per owner and a
// dish cannot be deleted while cook sessions reference it.
type DishService struct {
	db *gorm.DB
}

func NewDishService(db *gorm.DB) *DishService {
	return &DishService{db: db}
}

// List returns a page of visible dishes annotated with their session
// counts, plus the total match count.
func (s *DishService) List(ctx context.Context, userID uuid.UUID, filter DishFilter) ([]models.DishWithSessions, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Dish{}).Scopes(models.OwnedByTable("dishes", userID))

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.
			Joins("LEFT JOIN recipes ON recipes.id = dishes.default_recipe_id").
			Where("LOWER(dishes.name) LIKE ? OR LOWER(dishes.description) LIKE ? OR LOWER(recipes.title) LIKE ?", like, like, like)
	}
	if filter.InactiveOnly {
		query = query.Where("dishes.is_active = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dishes []models.DishWithSessions
	page, perPage := pageBounds(filter.Page, filter.PerPage, 20)
	err := query.
		Select("dishes.*, (SELECT COUNT(*) FROM cook_sessions WHERE cook_sessions.dish_id = dishes.id) AS session_count").
		Order("dishes.name ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&dishes).Error
	if err != nil {
		return nil, 0, err
	}
	return dishes, total, nil
}

// Get returns one visible dish with its default recipe preloaded and
// session count annotated.
func (s *DishService) Get(ctx context.Context, userID, id uuid.UUID) (*models.DishWithSessions, error) {
	var dish models.Dish
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).
		Preload("DefaultRecipe").
		First(&dish, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.CookSession{}).Where("dish_id = ?", dish.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	return &models.DishWithSessions{Dish: dish, SessionCount: count}, nil
}

// Create persists a new dish, stamping the creator when unset. A second
// dish with the same name under the same owner is refused.
func (s *DishService) Create(ctx context.Context, userID uuid.UUID, dish *models.Dish) error {
	dish.SetOwner(userID)
	if err := s.checkDuplicateName(ctx, dish); err != nil {
		return err
	}
	if err := s.validateDefaultRecipe(ctx, userID, dish); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(dish).Error
}

// Save persists changes to a dish previously loaded through Get.
func (s *DishService) Save(ctx context.Context, userID uuid.UUID, dish *models.Dish) error {
	dish.SetOwner(userID)
	if err := s.checkDuplicateName(ctx, dish); err != nil {
		return err
	}
	if err := s.validateDefaultRecipe(ctx, userID, dish); err != nil {
		return err
	}
	dish.DefaultRecipe = nil
	return s.db.WithContext(ctx).Save(dish).Error
}

// Delete removes a visible dish. The delete is refused while cook
// sessions still reference the dish; nothing is cascaded.
func (s *DishService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	var dish models.Dish
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).First(&dish, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var sessions int64
	if err := s.db.WithContext(ctx).Model(&models.CookSession{}).Where("dish_id = ?", dish.ID).Count(&sessions).Error; err != nil {
		return err
	}
	if sessions > 0 {
		return ErrDishInUse
	}

	return s.db.WithContext(ctx).Delete(&models.Dish{}, "id = ?", dish.ID).Error
}

// checkDuplicateName enforces the per-owner name uniqueness ahead of the
// database index, so callers get a clean conflict instead of a driver
// error. Unowned dishes are exempt, matching SQL NULL semantics.
func (s *DishService) checkDuplicateName(ctx context.Context, dish *models.Dish) error {
	if dish.CreatedByID == nil {
		return nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Dish{}).
		Where("name = ? AND created_by_id = ? AND id <> ?", dish.Name, dish.CreatedByID, dish.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateDish
	}
	return nil
}

func (s *DishService) validateDefaultRecipe(ctx context.Context, userID uuid.UUID, dish *models.Dish) error {
	if dish.DefaultRecipeID == nil {
		return nil
	}
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).First(&recipe, "id = ?", dish.DefaultRecipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
