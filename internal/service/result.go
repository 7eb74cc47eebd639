package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/models"
)

// ResultService handles cook results. A result is reachable only
// through its parent session; viewing or editing one is get-or-create,
// so there is no separate create affordance.
type ResultService struct {
	db *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

// GetOrCreateForSession returns the session's result, creating one with
// default values if it does not exist yet. The unique index on
// cook_session_id settles the race between two concurrent creators: the
// loser refetches the winner's row.
func (s *ResultService) GetOrCreateForSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.CookResult, error) {
	var session models.CookSession
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).First(&session, "id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var result models.CookResult
	err = s.db.WithContext(ctx).Where("cook_session_id = ?", session.ID).First(&result).Error
	if err == nil {
		return &result, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	result = models.CookResult{
		CookSessionID: session.ID,
		Outcome:       models.OutcomeExperiment,
	}
	result.SetOwner(userID)
	if err := s.db.WithContext(ctx).Create(&result).Error; err != nil {
		// Lost the uniqueness race: another request created the row
		// first, so hand back theirs.
		var existing models.CookResult
		if ferr := s.db.WithContext(ctx).Where("cook_session_id = ?", session.ID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &result, nil
}

// Get returns one visible result with its session preloaded.
func (s *ResultService) Get(ctx context.Context, userID, id uuid.UUID) (*models.CookResult, error) {
	var result models.CookResult
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).
		Preload("CookSession").Preload("CookSession.Dish").
		First(&result, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// Save persists changes to a result previously obtained through
// GetOrCreateForSession.
func (s *ResultService) Save(ctx context.Context, userID uuid.UUID, result *models.CookResult) error {
	result.SetOwner(userID)
	result.CookSession = nil
	return s.db.WithContext(ctx).Save(result).Error
}
