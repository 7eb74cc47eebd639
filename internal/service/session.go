package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/models"
	"github.com/cooklog/backend/internal/types"
)

// Named date windows accepted by the session list `when` filter and
// reused by the dashboard buckets.
const (
	WhenToday  = "today"
	WhenWeek   = "week"
	WhenMonth  = "month"
	WhenPast30 = "past30"
)

// SessionFilter narrows a cook session listing.
type SessionFilter struct {
	Query    string
	When     string
	MealType string
	Method   string
	DishID   *uuid.UUID
	Page     int
	PerPage  int
}

// SessionService handles cook session CRUD. Sessions always belong to a
// dish the caller can see.
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// List returns a page of visible sessions plus the total match count.
func (s *SessionService) List(ctx context.Context, userID uuid.UUID, filter SessionFilter) ([]models.CookSession, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.CookSession{}).Scopes(models.OwnedByTable("cook_sessions", userID))

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.
			Joins("LEFT JOIN dishes ON dishes.id = cook_sessions.dish_id").
			Joins("LEFT JOIN recipes ON recipes.id = cook_sessions.recipe_used_id").
			Where("LOWER(dishes.name) LIKE ? OR LOWER(recipes.title) LIKE ? OR LOWER(cook_sessions.summary) LIKE ?", like, like, like)
	}

	query = applyDateWindow(query, filter.When, types.Today())

	if filter.MealType != "" {
		query = query.Where("cook_sessions.meal_type = ?", filter.MealType)
	}
	if filter.Method != "" {
		query = query.Where("cook_sessions.method = ?", filter.Method)
	}
	if filter.DishID != nil {
		query = query.Where("cook_sessions.dish_id = ?", filter.DishID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.CookSession
	page, perPage := pageBounds(filter.Page, filter.PerPage, 25)
	err := query.Preload("Dish").Preload("RecipeUsed").
		Order("cook_sessions.cooked_on DESC, cook_sessions.created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// applyDateWindow narrows a session query to one of the fixed windows
// relative to today. Unknown window names leave the query untouched.
func applyDateWindow(query *gorm.DB, when string, today types.Date) *gorm.DB {
	switch when {
	case WhenToday:
		return query.Where("cook_sessions.cooked_on = ?", today)
	case WhenWeek:
		return query.Where("cook_sessions.cooked_on > ? AND cook_sessions.cooked_on <= ?", today, today.AddDays(7))
	case WhenMonth:
		return query.Where("cook_sessions.cooked_on > ? AND cook_sessions.cooked_on <= ?", today, today.AddDays(30))
	case WhenPast30:
		return query.Where("cook_sessions.cooked_on >= ? AND cook_sessions.cooked_on <= ?", today.AddDays(-30), today)
	}
	return query
}

// Get returns one visible session with its dish and recipe preloaded.
func (s *SessionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.CookSession, error) {
	var session models.CookSession
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).
		Preload("Dish").Preload("RecipeUsed").
		First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Create persists a new session after checking the dish and optional
// recipe are visible to the caller. An unset cooked_on defaults to today.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, session *models.CookSession) error {
	if err := s.validateRefs(ctx, userID, session); err != nil {
		return err
	}
	if session.CookedOn.IsZero() {
		session.CookedOn = types.Today()
	}
	session.SetOwner(userID)
	return s.db.WithContext(ctx).Create(session).Error
}

// Save persists changes to a session previously loaded through Get.
func (s *SessionService) Save(ctx context.Context, userID uuid.UUID, session *models.CookSession) error {
	if err := s.validateRefs(ctx, userID, session); err != nil {
		return err
	}
	session.SetOwner(userID)
	session.Dish = nil
	session.RecipeUsed = nil
	return s.db.WithContext(ctx).Save(session).Error
}

// Delete removes a visible session together with its result.
func (s *SessionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	var session models.CookSession
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CookResult{}, "cook_session_id = ?", session.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CookSession{}, "id = ?", session.ID).Error
	})
}

func (s *SessionService) validateRefs(ctx context.Context, userID uuid.UUID, session *models.CookSession) error {
	var dish models.Dish
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).First(&dish, "id = ?", session.DishID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if session.RecipeUsedID != nil {
		var recipe models.Recipe
		err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).First(&recipe, "id = ?", session.RecipeUsedID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}
