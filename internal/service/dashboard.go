package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/models"
	"github.com/cooklog/backend/internal/types"
)

// DashboardCounts is the per-entity-kind total for the current user,
// shared records included.
type DashboardCounts struct {
	Recipes  int64 `json:"recipes"`
	Dishes   int64 `json:"dishes"`
	Sessions int64 `json:"sessions"`
	Results  int64 `json:"results"`
	Notes    int64 `json:"notes"`
	Images   int64 `json:"images"`
	URLs     int64 `json:"urls"`
	PDFs     int64 `json:"pdfs"`
}

// Bucket is a named count of cook sessions in a fixed date window
// relative to today.
type Bucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// OutcomeCount is one bar of the outcome-frequency histogram.
type OutcomeCount struct {
	Outcome models.Outcome `json:"outcome"`
	Count   int64          `json:"count"`
}

// Dashboard is the read-only report composed for one user. Everything
// is derived from filtered queries at read time; there is no persisted
// aggregate state.
type Dashboard struct {
	Counts         DashboardCounts           `json:"counts"`
	RecentSessions []models.CookSession      `json:"recent_sessions"`
	RecentRecipes  []models.Recipe           `json:"recent_recipes"`
	PopularDishes  []models.DishWithSessions `json:"popular_dishes"`
	SessionBuckets []Bucket                  `json:"session_buckets"`
	TopOutcomes    []OutcomeCount            `json:"top_outcomes"`
}

// DashboardService aggregates counts and time buckets across all
// entities for one user.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Build composes the full dashboard for a user as of today.
func (s *DashboardService) Build(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	dash := &Dashboard{
		RecentSessions: []models.CookSession{},
		RecentRecipes:  []models.Recipe{},
		PopularDishes:  []models.DishWithSessions{},
		TopOutcomes:    []OutcomeCount{},
	}

	if err := s.counts(ctx, userID, &dash.Counts); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).
		Preload("Dish").Preload("RecipeUsed").
		Order("cooked_on DESC, created_at DESC").
		Limit(10).
		Find(&dash.RecentSessions).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).
		Order("updated_at DESC").
		Limit(8).
		Find(&dash.RecentRecipes).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.Dish{}).
		Scopes(models.OwnedByTable("dishes", userID)).
		Select("dishes.*, (SELECT COUNT(*) FROM cook_sessions WHERE cook_sessions.dish_id = dishes.id) AS session_count").
		Order("session_count DESC, dishes.name ASC").
		Limit(8).
		Find(&dash.PopularDishes).Error
	if err != nil {
		return nil, err
	}

	buckets, err := s.buckets(ctx, userID, types.Today())
	if err != nil {
		return nil, err
	}
	dash.SessionBuckets = buckets

	err = s.db.WithContext(ctx).Model(&models.CookResult{}).
		Scopes(models.OwnedBy(userID)).
		Select("outcome, COUNT(*) AS count").
		Group("outcome").
		Order("count DESC").
		Find(&dash.TopOutcomes).Error
	if err != nil {
		return nil, err
	}

	return dash, nil
}

func (s *DashboardService) counts(ctx context.Context, userID uuid.UUID, counts *DashboardCounts) error {
	for _, c := range []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Recipe{}, &counts.Recipes},
		{&models.Dish{}, &counts.Dishes},
		{&models.CookSession{}, &counts.Sessions},
		{&models.CookResult{}, &counts.Results},
		{&models.Note{}, &counts.Notes},
		{&models.TrackedImage{}, &counts.Images},
		{&models.ReferenceURL{}, &counts.URLs},
		{&models.PDFDocument{}, &counts.PDFs},
	} {
		err := s.db.WithContext(ctx).Model(c.model).Scopes(models.OwnedBy(userID)).Count(c.dest).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// buckets counts sessions in the four fixed windows: today, the next 7
// days excluding today, the next 30 days excluding today, and the past
// 30 days including today.
func (s *DashboardService) buckets(ctx context.Context, userID uuid.UUID, today types.Date) ([]Bucket, error) {
	windows := []struct {
		key   string
		label string
	}{
		{WhenToday, "Today"},
		{WhenWeek, "Next 7 days"},
		{WhenMonth, "Next 30 days"},
		{WhenPast30, "Past 30 days"},
	}

	buckets := make([]Bucket, 0, len(windows))
	for _, w := range windows {
		query := s.db.WithContext(ctx).Model(&models.CookSession{}).
			Scopes(models.OwnedByTable("cook_sessions", userID))
		query = applyDateWindow(query, w.key, today)

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return nil, err
		}
		buckets = append(buckets, Bucket{Key: w.key, Label: w.label, Count: count})
	}
	return buckets, nil
}
