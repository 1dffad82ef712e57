package models

import "ngocms/src/types"

type PushDevice struct {
	ID     uint        `gorm:"primarykey" json:"id"`
	Token  string      `gorm:"uniqueIndex" json:"token,omitempty"`
	Topics types.JSONB `gorm:"type:jsonb" json:"topics,omitempty"`
	Status string      `gorm:"default:'active'" json:"status,omitempty"`

	types.Timestamps
}
