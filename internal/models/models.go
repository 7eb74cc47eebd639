package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is the base embedded in every cooklog record: a uuid primary key,
// create/update timestamps and an optional owner. A nil CreatedByID marks
// a shared record visible to every authenticated user.
type Model struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"index" json:"updated_at"`
	CreatedByID *uuid.UUID `gorm:"type:varchar(36);index" json:"created_by_id,omitempty"`
}

// BeforeCreate assigns the primary key when one was not supplied.
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SetOwner stamps the record with its creator the first time it is saved.
// An already-owned record keeps its owner.
func (m *Model) SetOwner(userID uuid.UUID) {
	if m.CreatedByID == nil {
		id := userID
		m.CreatedByID = &id
	}
}

// User is an account that owns cooklog records. Deleting a user is
// refused while they still own records.
type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

// BeforeCreate assigns the primary key when one was not supplied.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// OwnedBy is the ownership predicate applied to every read and every
// mutation-target lookup: a user sees their own records plus shared
// (unowned) ones. It is the single authorization filter in the codebase.
func OwnedBy(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_by_id = ? OR created_by_id IS NULL", userID)
	}
}

// OwnedByTable is OwnedBy with a table-qualified column, for queries
// that join other owned tables.
func OwnedByTable(table string, userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".created_by_id = ? OR "+table+".created_by_id IS NULL", userID)
	}
}
