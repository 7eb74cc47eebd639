package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/models"
)

// Migrate brings the schema up to date. Works against both Postgres and
// the sqlite databases the tests run on.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Dish{},
		&models.CookSession{},
		&models.CookResult{},
		&models.Note{},
		&models.TrackedImage{},
		&models.ReferenceURL{},
		&models.PDFDocument{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// Dish names are unique per owner. NULL owners never collide, so
	// shared seed dishes may repeat names.
	err = db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS uniq_dish_owner_name ON dishes (created_by_id, name)",
	).Error
	if err != nil {
		return fmt.Errorf("failed to create dish uniqueness index: %w", err)
	}

	return nil
}
