package models

import "gorm.io/gorm"

// AllModels returns all models for migration.
// The post_tags join table is created by GORM from the many2many tags.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Tag{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
