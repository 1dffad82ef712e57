package scopes

import "gorm.io/gorm"

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithStatus(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

func Published(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "published")
}

func ActiveSubscribers(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "active")
}
