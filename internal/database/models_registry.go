package database

import "agora/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Content{},
		&models.Like{},
		&models.Follow{},
		&models.Comment{},
		&models.Image{},
	}
}
