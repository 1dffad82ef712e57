package models

import (
	"ngocms/src/types"
	"time"
)

type Subscriber struct {
	ID             uint                   `gorm:"primarykey" json:"id"`
	Email          string                 `gorm:"uniqueIndex" json:"email,omitempty"`
	Name           string                 `json:"name,omitempty"`
	Status         types.SubscriberStatus `gorm:"default:'active';index" json:"status,omitempty"`
	SubscribedAt   *time.Time             `json:"subscribed_at,omitempty"`
	UnsubscribedAt *time.Time             `json:"unsubscribed_at,omitempty"`

	types.Timestamps
}

type Volunteer struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	Name      string      `json:"name,omitempty"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Interests types.JSONB `gorm:"type:jsonb" json:"interests,omitempty"`
	Message   string      `json:"message,omitempty"`
	Status    string      `gorm:"default:'new'" json:"status,omitempty"`

	types.Timestamps
}
