package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/models"
)

// TargetRef identifies a resolved, ownership-checked attachment target.
type TargetRef struct {
	Type  models.TargetType `json:"type"`
	ID    string            `json:"id"`
	Label string            `json:"label"`
}

// TargetAggregate is the read side of a target: the resolved reference
// plus every attachment bound to it, each list in its defined order.
type TargetAggregate struct {
	Target TargetRef             `json:"target"`
	Notes  []models.Note         `json:"notes"`
	URLs   []models.ReferenceURL `json:"urls"`
	Images []models.TrackedImage `json:"images"`
	PDFs   []models.PDFDocument  `json:"pdfs"`
}

// AttachmentService creates and lists the four generic attachment kinds
// against any allowed target. The model-key allow-list is the single
// authorization boundary before the ownership-scoped target lookup.
type AttachmentService struct {
	db    *gorm.DB
	blobs BlobStore
}

func NewAttachmentService(db *gorm.DB, blobs BlobStore) *AttachmentService {
	return &AttachmentService{db: db, blobs: blobs}
}

// ResolveTarget validates the model key against the allow-list and
// loads the named record under the ownership predicate. Both an unknown
// key and an invisible record come back as ErrNotFound.
func (s *AttachmentService) ResolveTarget(ctx context.Context, userID uuid.UUID, modelKey string, targetID uuid.UUID) (*TargetRef, error) {
	targetType, ok := models.ParseTargetType(modelKey)
	if !ok {
		return nil, ErrNotFound
	}

	scoped := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID))

	var label string
	var err error
	switch targetType {
	case models.TargetRecipe:
		var recipe models.Recipe
		if err = scoped.First(&recipe, "id = ?", targetID).Error; err == nil {
			label = recipe.Title
		}
	case models.TargetDish:
		var dish models.Dish
		if err = scoped.First(&dish, "id = ?", targetID).Error; err == nil {
			label = dish.Name
		}
	case models.TargetCookSession:
		var session models.CookSession
		if err = scoped.First(&session, "id = ?", targetID).Error; err == nil {
			label = session.Summary
		}
	case models.TargetCookResult:
		var result models.CookResult
		if err = scoped.First(&result, "id = ?", targetID).Error; err == nil {
			label = string(result.Outcome)
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &TargetRef{Type: targetType, ID: targetID.String(), Label: label}, nil
}

// CreateNote attaches a note to the resolved target.
func (s *AttachmentService) CreateNote(ctx context.Context, userID uuid.UUID, target *TargetRef, note *models.Note) error {
	note.TargetType = target.Type
	note.TargetID = target.ID
	note.SetOwner(userID)
	return s.db.WithContext(ctx).Create(note).Error
}

// CreateURL attaches a reference URL to the resolved target.
func (s *AttachmentService) CreateURL(ctx context.Context, userID uuid.UUID, target *TargetRef, ref *models.ReferenceURL) error {
	ref.TargetType = target.Type
	ref.TargetID = target.ID
	ref.SetOwner(userID)
	return s.db.WithContext(ctx).Create(ref).Error
}

// CreateImage uploads the image blob under the record's stable uuid
// path, then attaches the image to the resolved target.
func (s *AttachmentService) CreateImage(ctx context.Context, userID uuid.UUID, target *TargetRef, img *models.TrackedImage, filename, contentType string, data []byte) error {
	if s.blobs == nil {
		return ErrStorageUnavailable
	}
	img.TargetType = target.Type
	img.TargetID = target.ID
	img.SetOwner(userID)
	if img.UUID == uuid.Nil {
		img.UUID = uuid.New()
	}

	key := ImageKey(img.UUID, filename)
	url, err := s.blobs.Upload(ctx, key, contentType, data)
	if err != nil {
		return err
	}
	img.ImageKey = key
	img.ImageURL = url

	if err := s.db.WithContext(ctx).Create(img).Error; err != nil {
		// The blob already landed in storage; the orphan is harmless
		// under the uuid key and will be overwritten on retry.
		log.Printf("[AttachmentService] image row insert failed after upload of %s: %v", key, err)
		return err
	}
	return nil
}

// CreatePDF uploads the document blob under the record's stable uuid
// path, then attaches it to the resolved target. The original filename
// is derived from the key at save time when absent.
func (s *AttachmentService) CreatePDF(ctx context.Context, userID uuid.UUID, target *TargetRef, doc *models.PDFDocument, filename string, data []byte) error {
	if s.blobs == nil {
		return ErrStorageUnavailable
	}
	doc.TargetType = target.Type
	doc.TargetID = target.ID
	doc.SetOwner(userID)
	if doc.UUID == uuid.Nil {
		doc.UUID = uuid.New()
	}

	key := PDFKey(doc.UUID, filename)
	url, err := s.blobs.Upload(ctx, key, "application/pdf", data)
	if err != nil {
		return err
	}
	doc.FileKey = key
	doc.FileURL = url

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		log.Printf("[AttachmentService] pdf row insert failed after upload of %s: %v", key, err)
		return err
	}
	return nil
}

// Aggregate fetches every attachment bound to the resolved target,
// ownership-filtered: notes pinned-first then most recently updated,
// the rest by sort order then newest first. Every call re-queries.
func (s *AttachmentService) Aggregate(ctx context.Context, userID uuid.UUID, target *TargetRef) (*TargetAggregate, error) {
	agg := &TargetAggregate{
		Target: *target,
		Notes:  []models.Note{},
		URLs:   []models.ReferenceURL{},
		Images: []models.TrackedImage{},
		PDFs:   []models.PDFDocument{},
	}

	bound := func(db *gorm.DB) *gorm.DB {
		return db.Where("target_type = ? AND target_id = ?", target.Type, target.ID)
	}

	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID), bound).
		Order("is_pinned DESC, updated_at DESC").
		Find(&agg.Notes).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Scopes(models.OwnedBy(userID), bound).
		Order("sort_order ASC, created_at DESC").
		Find(&agg.URLs).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Scopes(models.OwnedBy(userID), bound).
		Order("sort_order ASC, created_at DESC").
		Find(&agg.Images).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Scopes(models.OwnedBy(userID), bound).
		Order("sort_order ASC, created_at DESC").
		Find(&agg.PDFs).Error
	if err != nil {
		return nil, err
	}

	return agg, nil
}
