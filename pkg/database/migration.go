package database

import (
	"github.com/chroniclecms/chronicle/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Page{},
		&model.Tag{},
		&model.Site{},
	)
}
