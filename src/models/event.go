package models

import (
	"ngocms/src/types"
	"time"
)

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title,omitempty"`
	Slug        string            `gorm:"uniqueIndex" json:"slug,omitempty"`
	Description *string           `json:"description,omitempty"`
	Location    string            `json:"location,omitempty"`
	StartsAt    *time.Time        `json:"starts_at,omitempty"`
	EndsAt      *time.Time        `json:"ends_at,omitempty"`
	Status      types.EventStatus `gorm:"default:'draft'" json:"status,omitempty"`
	CreatedBy   uint              `json:"created_by,omitempty"`

	Creator     User         `gorm:"foreignKey:created_by" json:"-"`
	TicketTypes []TicketType `gorm:"foreignKey:event_id" json:"ticket_types,omitempty"`
	Tickets     []Ticket     `gorm:"foreignKey:event_id" json:"-"`

	types.Timestamps
}
