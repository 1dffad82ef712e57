package models

import (
	"ngocms/src/types"
	"time"
)

type User struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	Name         string          `json:"name,omitempty"`
	Email        string          `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string          `json:"-"`
	Role         types.Role      `gorm:"default:'viewer'" json:"role,omitempty"`
	LastActive   *time.Time      `json:"last_active,omitempty"`
	Metadata     *types.Metadata `gorm:"type:jsonb" json:"-"`

	Posts []Post `gorm:"foreignKey:author_id" json:"-"`

	types.Timestamps
}
