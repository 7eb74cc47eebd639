package models

import (
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetType discriminates which kind of record an attachment is bound
// to. Only the four values below are ever dereferenced; everything else
// is rejected before touching the database.
type TargetType string

const (
	TargetRecipe      TargetType = "recipe"
	TargetDish        TargetType = "dish"
	TargetCookSession TargetType = "cooksession"
	TargetCookResult  TargetType = "cookresult"
)

// ParseTargetType resolves a URL model key against the closed allow-list.
func ParseTargetType(key string) (TargetType, bool) {
	switch TargetType(key) {
	case TargetRecipe, TargetDish, TargetCookSession, TargetCookResult:
		return TargetType(key), true
	}
	return "", false
}

// Target binds an attachment to exactly one domain record via a
// (kind, id) pair. The id is stored as a string and never reassigned
// after creation.
type Target struct {
	TargetType TargetType `gorm:"size:20;not null;index" json:"target_type"`
	TargetID   string     `gorm:"size:64;not null;index" json:"target_id"`
}

// Note is a free-form note attachable to any domain record.
type Note struct {
	Model
	Target
	Title    string `gorm:"size:200" json:"title"`
	Body     string `gorm:"type:text;not null" json:"body"`
	IsPinned bool   `gorm:"default:false" json:"is_pinned"`
}

// TrackedImage is an uploaded image attachable to any domain record.
// Multiple images per target are ordered by SortOrder with an optional
// cover flag. The blob lives under a stable per-record uuid key.
type TrackedImage struct {
	Model
	Target
	UUID      uuid.UUID  `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	ImageKey  string     `gorm:"size:512;not null" json:"image_key"`
	ImageURL  string     `gorm:"size:512" json:"image_url"`
	Caption   string     `gorm:"size:300" json:"caption"`
	AltText   string     `gorm:"size:300" json:"alt_text"`
	TakenAt   *time.Time `json:"taken_at"`
	SortOrder int        `gorm:"default:0" json:"sort_order"`
	IsCover   bool       `gorm:"default:false" json:"is_cover"`
}

// BeforeCreate assigns the image's stable uuid identity.
func (img *TrackedImage) BeforeCreate(tx *gorm.DB) error {
	if err := img.Model.BeforeCreate(tx); err != nil {
		return err
	}
	if img.UUID == uuid.Nil {
		img.UUID = uuid.New()
	}
	return nil
}

// URLKind classifies what a reference URL points at.
type URLKind string

const (
	URLKindRecipe  URLKind = "recipe"
	URLKindVideo   URLKind = "video"
	URLKindProduct URLKind = "product"
	URLKindArticle URLKind = "article"
	URLKindOther   URLKind = "other"
)

// ReferenceURL is a remembered link attachable to any domain record:
// the original recipe page, a video, a product page and so on.
type ReferenceURL struct {
	Model
	Target
	Kind        URLKind `gorm:"size:20;default:'other';index" json:"kind"`
	Title       string  `gorm:"size:200" json:"title"`
	URL         string  `gorm:"size:2048;not null" json:"url"`
	Description string  `gorm:"type:text" json:"description"`
	SortOrder   int     `gorm:"default:0" json:"sort_order"`
	IsPrimary   bool    `gorm:"default:false" json:"is_primary"`
}

// PDFKind classifies what a PDF document contains.
type PDFKind string

const (
	PDFKindRecipe       PDFKind = "recipe"
	PDFKindReference    PDFKind = "reference"
	PDFKindInstructions PDFKind = "instructions"
	PDFKindOther        PDFKind = "other"
)

// PDFDocument is an uploaded PDF attachable to any domain record:
// scanned recipe cards, exported notes, supporting documents.
type PDFDocument struct {
	Model
	Target
	UUID             uuid.UUID `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	Kind             PDFKind   `gorm:"size:20;default:'other';index" json:"kind"`
	Title            string    `gorm:"size:200" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	FileKey          string    `gorm:"size:512;not null" json:"file_key"`
	FileURL          string    `gorm:"size:512" json:"file_url"`
	OriginalFilename string    `gorm:"size:255" json:"original_filename"`
	PageCount        *int      `json:"page_count"`
	SortOrder        int       `gorm:"default:0" json:"sort_order"`
}

// BeforeCreate assigns the document's stable uuid identity.
func (p *PDFDocument) BeforeCreate(tx *gorm.DB) error {
	if err := p.Model.BeforeCreate(tx); err != nil {
		return err
	}
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// BeforeSave derives the original filename from the stored key once,
// when it was not supplied.
func (p *PDFDocument) BeforeSave(tx *gorm.DB) error {
	if p.OriginalFilename == "" && p.FileKey != "" {
		p.OriginalFilename = path.Base(p.FileKey)
	}
	return nil
}
