package models

import (
	"ngocms/src/types"
	"time"
)

type TicketType struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	EventID     uint       `json:"event_id,omitempty"`
	Name        string     `json:"name,omitempty"`
	Price       float64    `json:"price"`
	MinDonation *float64   `json:"min_donation,omitempty"`
	MaxDonation *float64   `json:"max_donation,omitempty"`
	Quantity    uint       `json:"quantity,omitempty"`
	SalesStart  *time.Time `json:"sales_start,omitempty"`
	SalesEnd    *time.Time `json:"sales_end,omitempty"`
	Rank        int        `gorm:"default:0" json:"rank"`

	Event   Event    `json:"-"`
	Tickets []Ticket `gorm:"foreignKey:ticket_type_id" json:"-"`

	types.Timestamps
}

// EventID is set once at purchase time and never updated after.
type Ticket struct {
	ID            uint               `gorm:"primarykey" json:"id"`
	EventID       uint               `gorm:"index" json:"event_id,omitempty"`
	TicketTypeID  uint               `json:"ticket_type_id,omitempty"`
	OrderNumber   string             `gorm:"uniqueIndex" json:"order_number,omitempty"`
	AttendeeName  string             `json:"attendee_name,omitempty"`
	AttendeeEmail string             `json:"attendee_email,omitempty"`
	AttendeePhone string             `json:"attendee_phone,omitempty"`
	Status        types.TicketStatus `gorm:"default:'pending'" json:"status,omitempty"`
	CheckedInAt   *time.Time         `json:"checked_in_at,omitempty"`
	CheckedInBy   *string            `json:"checked_in_by,omitempty"`

	Event      Event      `json:"-"`
	TicketType TicketType `json:"ticket_type,omitempty"`

	types.Timestamps
}
